package domain

// Params is a canonical query parameter set. Values are strings or nested
// map[string]string / map[string]any for bracketed keys (filter, fields, page).
type Params map[string]any

// Response is the decoded result of a transport call.
type Response struct {
	Status  int
	Headers map[string][]string
	Body    Payload
	Raw     []byte
}
