package gateway

import "encoding/json"

// Envelope is the backend's JSON response wrapper. Most endpoints report
// success through status == "success"; a handful of older ones use a bare
// boolean success field instead. Both are accepted, the legacy form is
// logged so the inconsistency stays visible.
type Envelope struct {
	Status  string          `json:"status,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (e *Envelope) OK() bool {
	if e.Status == "success" {
		return true
	}
	return e.Success != nil && *e.Success
}

// Legacy reports whether the envelope used the old success-boolean form.
func (e *Envelope) Legacy() bool {
	return e.Status == "" && e.Success != nil
}
