package models

import (
	"fmt"
	"strings"
)

// Endpoint identifies one of the upstream rate endpoints
type Endpoint string

const (
	EndpointLatest     Endpoint = "latest"
	EndpointHistorical Endpoint = "historical"
	EndpointCurrencies Endpoint = "currencies"
)

// FetchOperation describes a single outbound upstream call.
// It is built fresh for every request and never reused.
type FetchOperation struct {
	Endpoint Endpoint
	Method   string
	Template string
	Params   map[string]string
}

// URL substitutes Params into Template. Placeholders have the form {name}.
func (op FetchOperation) URL() string {
	if len(op.Params) == 0 {
		return op.Template
	}

	pairs := make([]string, 0, len(op.Params)*2)
	for name, value := range op.Params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(op.Template)
}

// FetchErrorKind classifies upstream failures
type FetchErrorKind string

const (
	FetchErrorTransport FetchErrorKind = "transport"
	FetchErrorBadStatus FetchErrorKind = "bad_status"
)

// FetchError is returned by the upstream fetcher when a call does not yield a 200 response
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrorBadStatus:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	default:
		return fmt.Sprintf("upstream transport error: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
