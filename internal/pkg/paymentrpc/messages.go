package paymentrpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed reports a message missing a field or carrying the wrong type.
var ErrMalformed = errors.New("paymentrpc: malformed message")

const (
	fieldMethod    = "method"
	fieldAmount    = "amount"
	fieldSucceeded = "succeeded"
	fieldMessage   = "message"
	fieldErrorKind = "error_kind"
)

// PayRequest asks the service to charge Amount, a decimal string, with Method.
type PayRequest struct {
	Method string
	Amount string
}

// PayResponse is the payment outcome. ErrorKind is empty on success and
// otherwise names the domain error that caused the failure.
type PayResponse struct {
	Succeeded bool
	Message   string
	ErrorKind string
}

func (r PayRequest) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldMethod: structpb.NewStringValue(r.Method),
		fieldAmount: structpb.NewStringValue(r.Amount),
	}}
}

func ParsePayRequest(s *structpb.Struct) (PayRequest, error) {
	var (
		r   PayRequest
		err error
	)
	if r.Method, err = stringField(s, fieldMethod); err != nil {
		return PayRequest{}, err
	}
	if r.Amount, err = stringField(s, fieldAmount); err != nil {
		return PayRequest{}, err
	}
	return r, nil
}

func (r PayResponse) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSucceeded: structpb.NewBoolValue(r.Succeeded),
		fieldMessage:   structpb.NewStringValue(r.Message),
		fieldErrorKind: structpb.NewStringValue(r.ErrorKind),
	}}
}

func ParsePayResponse(s *structpb.Struct) (PayResponse, error) {
	var (
		r   PayResponse
		err error
	)
	v, ok := s.GetFields()[fieldSucceeded]
	if !ok {
		return PayResponse{}, fmt.Errorf("%w: missing %q", ErrMalformed, fieldSucceeded)
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return PayResponse{}, fmt.Errorf("%w: %q is not a bool", ErrMalformed, fieldSucceeded)
	}
	r.Succeeded = b.BoolValue

	if r.Message, err = stringField(s, fieldMessage); err != nil {
		return PayResponse{}, err
	}
	// error_kind is optional so older servers stay readable
	if _, ok := s.GetFields()[fieldErrorKind]; ok {
		if r.ErrorKind, err = stringField(s, fieldErrorKind); err != nil {
			return PayResponse{}, err
		}
	}
	return r, nil
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformed, name)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformed, name)
	}
	return sv.StringValue, nil
}
