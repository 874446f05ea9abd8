package fiber

import (
	"net/http"

	"event-aggregation-service/internal/aggregation/core/domain"
)

const (
	msgMalformedRequest = "expected a message containing JSON with the query parameters"
	msgMissingField     = "expected keys dt_from, dt_upto, group_type"
	msgInvalidParams    = "dt_from/dt_upto must be formatted as %Y-%m-%dT%H:%M:%S\n" +
		"Example: 2022-09-01T00:00:00\n\n" +
		"group_type must be one of hour, day or month"
	msgFailurePrefix = "an error occurred: "
)

// replyFor maps an error to the user-facing text. Bad timestamps and bad
// group types share one message.
func replyFor(err error) string {
	switch domain.KindOf(err) {
	case domain.KindMalformedRequest:
		return msgMalformedRequest
	case domain.KindMissingField:
		return msgMissingField
	case domain.KindInvalidTimestamp, domain.KindInvalidGranularity:
		return msgInvalidParams
	default:
		return msgFailurePrefix + domain.KindOf(err).String()
	}
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindMalformedRequest, domain.KindMissingField,
		domain.KindInvalidTimestamp, domain.KindInvalidGranularity:
		return http.StatusBadRequest
	case domain.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
