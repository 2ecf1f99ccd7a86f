package httpx

import (
	"encoding/json"
	"io"
	"net/http"
)

// Decode reads the request body once and unmarshals it twice: into a
// generic map the validation rules run against, and into dst (when
// non-nil) for the handler's typed view. An empty body yields an empty
// map so required-field rules still report.
func Decode(r *http.Request, dst any) (map[string]any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	body := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		if dst != nil {
			if err := json.Unmarshal(raw, dst); err != nil {
				return nil, err
			}
		}
	}
	return body, nil
}
