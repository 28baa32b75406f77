package jsonfields

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userSchema = ObjectShorthand{
	"name":  FilledString,
	"email": Email,
	"score": NewOptionalType(U8),
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestValidateRequest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := newJSONRequest(`{"name": "Alice", "email": "alice@example.com", "score": 30}`)

		body, err := ValidateRequest(req, userSchema)
		require.NoError(t, err)
		assert.Equal(t, "Alice", body.Get("name").String())

		// Body is restored for downstream readers
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "Alice", "email": "alice@example.com", "score": 30}`, string(raw))
	})

	t.Run("Invalid", func(t *testing.T) {
		req := newJSONRequest(`{"name": "", "email": "alice@example.com"}`)

		body, err := ValidateRequest(req, userSchema)
		assert.ErrorIs(t, err, ErrEmptyString)
		assert.True(t, body.IsObject())
	})

	t.Run("EmptyBodyIsNull", func(t *testing.T) {
		req := newJSONRequest("")
		_, err := ValidateRequest(req, NewOptionalType(userSchema))
		assert.NoError(t, err)

		req = newJSONRequest("")
		_, err = ValidateRequest(req, userSchema)
		assert.ErrorIs(t, err, ErrNotAnObject)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ValidateRequest(newJSONRequest(`{"name": `), userSchema)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("ContentTypes", func(t *testing.T) {
		tests := []struct {
			contentType string
			ok          bool
		}{
			{"", true},
			{"application/json", true},
			{"application/json; charset=utf-8", true},
			{"Application/JSON", true},
			{"application/merge-patch+json", true},
			{"text/plain", false},
			{"application/x-www-form-urlencoded", false},
		}

		for _, test := range tests {
			t.Run(test.contentType, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`"x"`))
				if test.contentType != "" {
					req.Header.Set("Content-Type", test.contentType)
				}

				_, err := ValidateRequest(req, String)
				if test.ok {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrUnsupportedContentType)
				}
			})
		}
	})
}

func TestMiddleware(t *testing.T) {
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true

		body, ok := BodyFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "Alice", body.Get("name").String())

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, raw)

		w.WriteHeader(http.StatusCreated)
	})

	serve := func(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
		reached = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	handler := Middleware(userSchema, MiddlewareOpts{})(next)

	t.Run("Accepted", func(t *testing.T) {
		rec := serve(handler, newJSONRequest(`{"name": "Alice", "email": "alice@example.com"}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, reached)
	})

	t.Run("Unprocessable", func(t *testing.T) {
		rec := serve(handler, newJSONRequest(`{"name": "Alice", "email": "alice@example.com", "score": 300}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, reached)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp struct {
			Error string   `json:"error"`
			Path  []string `json:"path"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"score"}, resp.Path)
		assert.Contains(t, resp.Error, "expected a u8")
	})

	t.Run("BadRequest", func(t *testing.T) {
		rec := serve(handler, newJSONRequest(`{"name"`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, reached)
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		req := newJSONRequest(`{}`)
		req.Header.Set("Content-Type", "text/csv")
		rec := serve(handler, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("TooLarge", func(t *testing.T) {
		limited := Middleware(userSchema, MiddlewareOpts{MaxBodyBytes: 16})(next)
		rec := serve(limited, newJSONRequest(`{"name": "Alice", "email": "alice@example.com"}`))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.False(t, reached)
	})

	t.Run("OnError", func(t *testing.T) {
		var gotStatus int
		custom := Middleware(userSchema, MiddlewareOpts{
			OnError: func(w http.ResponseWriter, r *http.Request, status int, err error) {
				gotStatus = status
				w.WriteHeader(http.StatusTeapot)
			},
		})(next)

		rec := serve(custom, newJSONRequest(`[]`))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, gotStatus)
	})

	t.Run("Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logged := Middleware(userSchema, MiddlewareOpts{Logger: logger})(next)

		serve(logged, newJSONRequest(`{}`))
		assert.Contains(t, buf.String(), "rejected request body")
		assert.Contains(t, buf.String(), "status=422")
	})

	t.Run("NilSchemaPanics", func(t *testing.T) {
		assert.Panics(t, func() { Middleware(nil, MiddlewareOpts{}) })
	})
}
