package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

func TestPriceTable_Lookup(t *testing.T) {
	t.Parallel()

	table := DefaultPriceTable()

	tests := []struct {
		name        string
		origin      string
		destination string
		want        string
	}{
		{name: "listed", origin: "El Salvador", destination: "Colombia", want: "300"},
		{name: "listed_other", origin: "Guatemala", destination: "Mexico", want: "200"},
		{name: "reverse_not_listed", origin: "Colombia", destination: "El Salvador", want: "999.99"},
		{name: "case_sensitive", origin: "el salvador", destination: "Colombia", want: "999.99"},
		{name: "unknown", origin: "Peru", destination: "Chile", want: "999.99"},
		{name: "empty", origin: "", destination: "", want: "999.99"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := table.Lookup(tt.origin, tt.destination)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPriceTable_Listing(t *testing.T) {
	table := DefaultPriceTable()

	routes := table.Routes()
	require.Len(t, routes, 9)
	assert.Equal(t, "El Salvador", routes[0].Origin)
	assert.Equal(t, "Colombia", routes[0].Destination)
	assert.Equal(t, "Honduras", routes[8].Origin)
	assert.Equal(t, "Panama", routes[8].Destination)

	assert.Equal(t, []string{"El Salvador", "Guatemala", "Honduras"}, table.Origins())
	assert.Equal(t, []string{"Colombia", "Mexico", "Panama"}, table.Destinations())
	assert.True(t, table.Fallback().Equal(DefaultFallbackPrice))

	// callers cannot mutate the table through the listing
	routes[0].Price = decimal.Zero
	assert.True(t, table.Lookup("El Salvador", "Colombia").Equal(decimal.NewFromInt(300)))
}

func TestNewPriceTable_CustomFallback(t *testing.T) {
	table := NewPriceTable([]RoutePrice{
		{Origin: "A", Destination: "B", Price: decimal.NewFromInt(10)},
		{Origin: "A", Destination: "B", Price: decimal.NewFromInt(12)},
	}, decimal.NewFromInt(50))

	assert.True(t, table.Lookup("A", "B").Equal(decimal.NewFromInt(12)))
	assert.True(t, table.Lookup("B", "A").Equal(decimal.NewFromInt(50)))
	assert.Len(t, table.Routes(), 1)
}

func TestCatalog_Book(t *testing.T) {
	t.Parallel()

	departs := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		kind        domain.ServiceKind
		route       *domain.RouteInfo
		wantErr     error
		wantMessage string
		wantPrice   string
	}{
		{
			name:        "hotel",
			kind:        domain.ServiceHotel,
			wantMessage: "Hotel booked successfully.",
			wantPrice:   "0",
		},
		{
			name:        "car",
			kind:        domain.ServiceCar,
			wantMessage: "Car rented successfully.",
			wantPrice:   "0",
		},
		{
			name:        "flight_listed",
			kind:        domain.ServiceFlight,
			route:       &domain.RouteInfo{Origin: "El Salvador", Destination: "Colombia", DepartsAt: departs},
			wantMessage: "Flight booked: El Salvador -> Colombia, departing 2025-03-01 10:30, fare $300.00.",
			wantPrice:   "300",
		},
		{
			name:        "flight_unlisted_uses_fallback",
			kind:        domain.ServiceFlight,
			route:       &domain.RouteInfo{Origin: "Peru", Destination: "Chile"},
			wantMessage: "Flight booked: Peru -> Chile, departing date to be confirmed, fare $999.99.",
			wantPrice:   "999.99",
		},
		{
			name:    "flight_same_origin_destination",
			kind:    domain.ServiceFlight,
			route:   &domain.RouteInfo{Origin: "Colombia", Destination: "Colombia"},
			wantErr: domain.ErrInvalidRoute,
		},
		{
			name:    "flight_without_route",
			kind:    domain.ServiceFlight,
			wantErr: domain.ErrInvalidRoute,
		},
		{
			name:    "flight_missing_destination",
			kind:    domain.ServiceFlight,
			route:   &domain.RouteInfo{Origin: "Honduras"},
			wantErr: domain.ErrInvalidRoute,
		},
		{
			name:    "unknown_kind",
			kind:    domain.ServiceKind("cruise"),
			wantErr: domain.ErrUnknownService,
		},
	}

	c := New(nil)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := c.Book(tt.kind, tt.route)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, res.Succeeded)
				assert.NotEmpty(t, res.Message)
				return
			}

			require.NoError(t, err)
			assert.True(t, res.Succeeded)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.True(t, res.Price.Equal(decimal.RequireFromString(tt.wantPrice)), "price %s", res.Price)
		})
	}
}

func TestCatalog_SameRouteFailsWhateverTheTable(t *testing.T) {
	table := NewPriceTable([]RoutePrice{
		{Origin: "Panama", Destination: "Panama", Price: decimal.NewFromInt(1)},
	}, decimal.NewFromInt(1))

	_, err := New(table).Book(domain.ServiceFlight, &domain.RouteInfo{Origin: "Panama", Destination: "Panama"})
	assert.ErrorIs(t, err, domain.ErrInvalidRoute)
}

func TestCatalog_BookIsIdempotent(t *testing.T) {
	c := New(nil)
	route := &domain.RouteInfo{Origin: "Guatemala", Destination: "Panama"}

	first, err := c.Book(domain.ServiceFlight, route)
	require.NoError(t, err)
	second, err := c.Book(domain.ServiceFlight, route)
	require.NoError(t, err)

	assert.Equal(t, first.Message, second.Message)
	assert.True(t, first.Price.Equal(second.Price))
	assert.Equal(t, first.Succeeded, second.Succeeded)
}
