package fiber

import (
	"encoding/json"
	"fmt"
	"strings"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/usecase"
)

var requiredKeys = []string{"dt_from", "dt_upto", "group_type"}

// decodeQuery turns a JSON object into use case input. Absent or null keys
// are ErrMissingField; values of the wrong type are passed on as empty
// strings so the use case rejects them as invalid parameters.
func decodeQuery(body []byte) (usecase.AggregateInput, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return usecase.AggregateInput{}, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}
	if fields == nil {
		return usecase.AggregateInput{}, fmt.Errorf("%w: expected a JSON object", domain.ErrMalformedRequest)
	}

	var missing []string
	for _, k := range requiredKeys {
		if v, ok := fields[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return usecase.AggregateInput{}, fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(missing, ", "))
	}

	return usecase.AggregateInput{
		DtFrom:    stringField(fields, "dt_from"),
		DtUpto:    stringField(fields, "dt_upto"),
		GroupType: stringField(fields, "group_type"),
	}, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
