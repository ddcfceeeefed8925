package shared

import "time"

// Envelope is the uniform response wrapper every operation returns.
// Failure responses carry an error message and no payload; successful
// responses embed it alongside operation-specific fields.
type Envelope struct {
	Success   bool      `json:"success"`
	Error     *string   `json:"error"`
	QueryDate time.Time `json:"queryDate"`
}

// OK returns a success envelope stamped with the current time.
func OK() Envelope {
	return Envelope{Success: true, QueryDate: time.Now().UTC()}
}

// Fail returns a failure envelope carrying the given message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: &message, QueryDate: time.Now().UTC()}
}
