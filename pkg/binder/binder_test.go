package binder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/binder"
)

type input struct {
	Parts []any `json:"parts"`
}

func request(contentType, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes and keeps numbers", func(t *testing.T) {
		t.Parallel()
		var in input
		require.NoError(t, binder.JSON(request("application/json; charset=utf-8", `{"parts":["order",9007199254740993]}`), &in))
		require.Len(t, in.Parts, 2)
		assert.Equal(t, json.Number("9007199254740993"), in.Parts[1])
	})

	tests := []struct {
		name        string
		contentType string
		body        string
		err         error
		status      int
	}{
		{"wrong media type", "text/plain", `{}`, binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"missing media type", "", `{}`, binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrInvalidJSON, http.StatusBadRequest},
		{"unknown field", "application/json", `{"nope":1}`, binder.ErrInvalidJSON, http.StatusBadRequest},
		{"trailing data", "application/json", `{} {}`, binder.ErrInvalidJSON, http.StatusBadRequest},
		{"too large", "application/json", `{"parts":["` + strings.Repeat("a", binder.MaxJSONSize) + `"]}`, binder.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var in input
			err := binder.JSON(request(tt.contentType, tt.body), &in)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.status, binder.Status(err))
		})
	}
}

func TestPathUUID(t *testing.T) {
	t.Parallel()

	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	want := uuid.New()
	got, err := binder.PathUUID(withParam(want.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = binder.PathUUID(withParam("42"), "id")
	assert.ErrorIs(t, err, binder.ErrInvalidPathParam)
}
