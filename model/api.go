package model

import "encoding/json"

// ApiErrorResponse captures whatever body a vendor returns with an error status.
type ApiErrorResponse map[string]any

func (e ApiErrorResponse) String() string {
	if len(e) == 0 {
		return ""
	}

	bytes, err := json.Marshal(e)
	if err != nil {
		return "cannot define error response"
	}

	return string(bytes)
}
