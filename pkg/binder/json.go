package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxJSONSize caps request bodies read by JSON.
const MaxJSONSize = 1 << 20

// JSON strictly decodes exactly one JSON value from the request body into v.
// Unknown fields are rejected and numbers inside interface values are kept as
// json.Number, so large integer keys survive intact.
func JSON(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return ErrUnsupportedMediaType
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
	if err != nil {
		return errors.Join(ErrInvalidJSON, err)
	}
	if len(body) > MaxJSONSize {
		return ErrBodyTooLarge
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after value", ErrInvalidJSON)
	}
	return nil
}

// Status maps a binding error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}
