package webhooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Marshal encodes v as compact JSON without a trailing newline. HTML
// characters are not escaped so markdown content travels verbatim.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Seal serializes payload once and signs the resulting bytes.
func Seal(secret string, payload any) (*Envelope, error) {
	body, err := Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Body: body, Signature: Sign(secret, body)}, nil
}

// Validate reports the first mandatory field that is empty.
func (in CreatePostInput) Validate() error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case in.Content == "":
		return fmt.Errorf("%w: content", ErrMissingField)
	}
	return nil
}

func (in CreatePostInput) payload(now time.Time) createPayload {
	date := in.Date
	if date == "" {
		date = now.UTC().Format(time.RFC3339)
	}
	return createPayload{
		Title:          in.Title,
		Content:        in.Content,
		Draft:          in.Draft,
		Summary:        in.Summary,
		Tags:           nonEmpty(in.Tags),
		HeaderImage:    in.HeaderImage,
		HeaderImageAlt: in.HeaderImageAlt,
		Slug:           in.Slug,
		Date:           date,
	}
}

// Validate reports the first mandatory field that is empty.
func (in UpdatePostInput) Validate() error {
	switch {
	case in.Slug == "":
		return fmt.Errorf("%w: slug", ErrMissingField)
	case in.Title == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case in.Content == "":
		return fmt.Errorf("%w: content", ErrMissingField)
	}
	return nil
}

func (in UpdatePostInput) payload() updatePayload {
	return updatePayload{
		Slug:           in.Slug,
		Title:          in.Title,
		Content:        in.Content,
		Draft:          in.Draft,
		Summary:        in.Summary,
		Tags:           nonEmpty(in.Tags),
		HeaderImage:    in.HeaderImage,
		HeaderImageAlt: in.HeaderImageAlt,
		Date:           in.Date,
	}
}

// nonEmpty drops blank tags; an all-blank list becomes nil and is omitted.
func nonEmpty(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
