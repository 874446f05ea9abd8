package domain

import "errors"

var (
	// ErrMalformedRequest: the request body is not a JSON object.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrMissingField: one of dt_from, dt_upto, group_type is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidTimestamp: a timestamp is present but not YYYY-MM-DDThh:mm:ss.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidGranularity: group_type is not one of hour, day, month.
	ErrInvalidGranularity = errors.New("invalid granularity")
	// ErrStoreUnavailable: the event store query could not be completed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrorKind tags an aggregation failure with one taxonomy variant.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedRequest
	KindMissingField
	KindInvalidTimestamp
	KindInvalidGranularity
	KindStoreUnavailable
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "unknown",
	KindMalformedRequest:   "malformed_request",
	KindMissingField:       "missing_field",
	KindInvalidTimestamp:   "invalid_timestamp",
	KindInvalidGranularity: "invalid_granularity",
	KindStoreUnavailable:   "store_unavailable",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// KindOf reports which variant err belongs to. A nil error is KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMalformedRequest):
		return KindMalformedRequest
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrInvalidTimestamp):
		return KindInvalidTimestamp
	case errors.Is(err, ErrInvalidGranularity):
		return KindInvalidGranularity
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}

// IsQueryError reports whether err was caused by the caller's input rather
// than by the store.
func IsQueryError(err error) bool {
	switch KindOf(err) {
	case KindMalformedRequest, KindMissingField, KindInvalidTimestamp, KindInvalidGranularity:
		return true
	default:
		return false
	}
}
