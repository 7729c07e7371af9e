package extraction

import (
	"encoding/json"
	"strings"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// Response is the structured shape the extraction service is asked to
// return. Unknown fields are ignored.
type Response struct {
	Order         *domain.OrderDraft `json:"order"`
	MissingFields []string           `json:"missing_fields"`
	Question      string             `json:"question"`
}

// Parse recovers a Response from the service's free-form text. Strict JSON
// is tried first; failing that, the first top-level brace-delimited
// substring (which also handles code fences and prose around the JSON);
// failing both, an empty Response. The leniency rules live here and only
// here.
func Parse(text string) Response {
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return resp
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		resp = Response{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err == nil {
			return resp
		}
	}

	return Response{}
}
