package webhooks

import "errors"

// Header names used on every outbound request.
const (
	SignatureHeader = "X-Webhook-Signature"
	RequestIDHeader = "X-Request-ID"
	SignaturePrefix = "sha256="
)

var (
	// ErrTransport wraps failures that happened before a response was read
	// (connection refused, DNS, timeouts, cancelled contexts).
	ErrTransport = errors.New("webhook transport failure")

	// ErrMissingField is returned before any I/O when a mandatory post field is empty.
	ErrMissingField = errors.New("missing required field")

	ErrMissingURL    = errors.New("webhook url is required")
	ErrMissingSecret = errors.New("webhook secret is required")
)

// CreatePostInput describes a new post. Empty optional fields are omitted from
// the payload; an empty Date is replaced with the current time. Blank entries
// in Tags are dropped, and Tags is omitted when none remain.
type CreatePostInput struct {
	Title          string
	Content        string
	Draft          bool
	Summary        string
	Tags           []string
	HeaderImage    string
	HeaderImageAlt string
	Slug           string
	Date           string // ISO-8601
}

// UpdatePostInput replaces an existing post identified by Slug. Date is sent
// only when set. Tags follow the same blank-dropping rule as CreatePostInput.
type UpdatePostInput struct {
	Slug           string
	Title          string
	Content        string
	Draft          bool
	Summary        string
	Tags           []string
	HeaderImage    string
	HeaderImageAlt string
	Date           string // ISO-8601
}

// Envelope is a serialized payload and the signature computed over exactly
// those bytes. Body must be sent unmodified.
type Envelope struct {
	Body      []byte
	Signature string
}

// Result is the interpreted response of one webhook call.
type Result struct {
	StatusCode int
	Data       any  // decoded JSON, or {"error": <raw body>} when the body is not JSON
	Success    bool // status < 400 and the body was JSON
}

// Field returns a top-level string field from an object response, or "".
func (r *Result) Field(name string) string {
	if r == nil {
		return ""
	}
	obj, ok := r.Data.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[name].(string)
	return s
}

type createPayload struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Draft          bool     `json:"draft"`
	Summary        string   `json:"summary,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	HeaderImage    string   `json:"headerImage,omitempty"`
	HeaderImageAlt string   `json:"headerImageAlt,omitempty"`
	Slug           string   `json:"slug,omitempty"`
	Date           string   `json:"date"`
}

type updatePayload struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Draft          bool     `json:"draft"`
	Summary        string   `json:"summary,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	HeaderImage    string   `json:"headerImage,omitempty"`
	HeaderImageAlt string   `json:"headerImageAlt,omitempty"`
	Date           string   `json:"date,omitempty"`
}

type deletePayload struct {
	Slug string `json:"slug"`
}
