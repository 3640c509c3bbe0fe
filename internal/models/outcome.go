package models

import "errors"

// OutcomeKind tells the caller how a resolution was satisfied
type OutcomeKind string

const (
	OutcomeCacheHit                  OutcomeKind = "cache_hit"
	OutcomeFetchedAndCached          OutcomeKind = "fetched_and_cached"
	OutcomeFetchedCacheWriteDeferred OutcomeKind = "fetched_cache_write_deferred"
	OutcomeFailed                    OutcomeKind = "failed"
)

// ReasonTimeout is the failure reason used when the upstream call exceeds its deadline
const ReasonTimeout = "Timeout"

// Outcome is the result of resolving one cache key. It lives for a single request.
type Outcome struct {
	Kind   OutcomeKind
	Data   []byte
	Reason string
	Err    error
	// UpstreamStatus is the non-200 status returned by the upstream, if any
	UpstreamStatus int
}

// CacheHit builds an outcome for bytes served from the cache
func CacheHit(data []byte) Outcome {
	return Outcome{Kind: OutcomeCacheHit, Data: data}
}

// Fetched builds an outcome for bytes fetched from upstream
func Fetched(data []byte, writeScheduled bool) Outcome {
	if writeScheduled {
		return Outcome{Kind: OutcomeFetchedAndCached, Data: data}
	}
	return Outcome{Kind: OutcomeFetchedCacheWriteDeferred, Data: data}
}

// Failed builds an outcome for a resolution that produced no bytes
func Failed(reason string, err error) Outcome {
	outcome := Outcome{Kind: OutcomeFailed, Reason: reason, Err: err}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.Kind == FetchErrorBadStatus {
		outcome.UpstreamStatus = fetchErr.StatusCode
	}
	return outcome
}

// OK reports whether the outcome carries response bytes
func (o Outcome) OK() bool {
	return o.Kind != OutcomeFailed
}

// FromCache reports whether the bytes were served without an upstream call
func (o Outcome) FromCache() bool {
	return o.Kind == OutcomeCacheHit
}
