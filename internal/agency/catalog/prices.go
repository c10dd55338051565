package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultFallbackPrice is charged for routes missing from the table.
var DefaultFallbackPrice = decimal.RequireFromString("999.99")

// RoutePrice is one entry of the route price table.
type RoutePrice struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Price       decimal.Decimal `json:"price"`
}

type routeKey struct {
	origin, destination string
}

// PriceTable maps an origin/destination pair to a fixed fare.
// It is read-only after construction and safe for concurrent use.
type PriceTable struct {
	prices   map[routeKey]decimal.Decimal
	routes   []RoutePrice
	fallback decimal.Decimal
}

// NewPriceTable builds a table from entries. Later duplicates win.
func NewPriceTable(entries []RoutePrice, fallback decimal.Decimal) *PriceTable {
	t := &PriceTable{
		prices:   make(map[routeKey]decimal.Decimal, len(entries)),
		fallback: fallback,
	}
	for _, e := range entries {
		t.prices[routeKey{e.Origin, e.Destination}] = e.Price
	}

	t.routes = make([]RoutePrice, 0, len(t.prices))
	for k, p := range t.prices {
		t.routes = append(t.routes, RoutePrice{Origin: k.origin, Destination: k.destination, Price: p})
	}
	sort.Slice(t.routes, func(i, j int) bool {
		if t.routes[i].Origin != t.routes[j].Origin {
			return t.routes[i].Origin < t.routes[j].Origin
		}
		return t.routes[i].Destination < t.routes[j].Destination
	})
	return t
}

// DefaultPriceTable returns the agency's published fares.
func DefaultPriceTable() *PriceTable {
	p := decimal.RequireFromString
	return NewPriceTable([]RoutePrice{
		{Origin: "El Salvador", Destination: "Colombia", Price: p("300.00")},
		{Origin: "El Salvador", Destination: "Mexico", Price: p("250.00")},
		{Origin: "El Salvador", Destination: "Panama", Price: p("180.00")},
		{Origin: "Guatemala", Destination: "Colombia", Price: p("320.00")},
		{Origin: "Guatemala", Destination: "Mexico", Price: p("200.00")},
		{Origin: "Guatemala", Destination: "Panama", Price: p("210.00")},
		{Origin: "Honduras", Destination: "Colombia", Price: p("310.00")},
		{Origin: "Honduras", Destination: "Mexico", Price: p("260.00")},
		{Origin: "Honduras", Destination: "Panama", Price: p("190.00")},
	}, DefaultFallbackPrice)
}

// Lookup returns the fare for the route, or the fallback price when the
// pair is not listed. Matching is exact and case-sensitive.
func (t *PriceTable) Lookup(origin, destination string) decimal.Decimal {
	if p, ok := t.prices[routeKey{origin, destination}]; ok {
		return p
	}
	return t.fallback
}

// Fallback returns the price charged for unlisted routes.
func (t *PriceTable) Fallback() decimal.Decimal { return t.fallback }

// Routes lists every entry sorted by origin, then destination.
func (t *PriceTable) Routes() []RoutePrice {
	out := make([]RoutePrice, len(t.routes))
	copy(out, t.routes)
	return out
}

// Origins lists the distinct origins in sorted order.
func (t *PriceTable) Origins() []string {
	return t.distinct(func(r RoutePrice) string { return r.Origin })
}

// Destinations lists the distinct destinations in sorted order.
func (t *PriceTable) Destinations() []string {
	return t.distinct(func(r RoutePrice) string { return r.Destination })
}

func (t *PriceTable) distinct(field func(RoutePrice) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.routes {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
