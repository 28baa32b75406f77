package jsonfields

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrUnsupportedContentType = errors.New("unsupported content type, expected JSON")
	ErrReadingBody            = errors.New("failed to read request body")
)

// DefaultMaxBodyBytes is the body limit of Middleware when none is set.
const DefaultMaxBodyBytes int64 = 1 << 20

type bodyContextKey struct{}

// ValidateRequest reads the JSON body of r and validates it against schema.
// The body is restored so downstream handlers can read it again. An empty
// body is validated as null. A Content-Type, when present, must be JSON.
//
// The parsed body is returned even when validation fails.
func ValidateRequest(r *http.Request, schema SchemaType) (gjson.Result, error) {
	body, err := readJSONBody(r)
	if err != nil {
		return gjson.Result{}, err
	}
	return body, Validate(schema, body)
}

// BodyFromContext returns the request body validated by Middleware.
func BodyFromContext(ctx context.Context) (gjson.Result, bool) {
	body, ok := ctx.Value(bodyContextKey{}).(gjson.Result)
	return body, ok
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.TrimSpace(strings.Split(contentType, ContentTypeDelimiter)[0])
	mediaType = strings.ToLower(mediaType)
	return mediaType == ContentTypeApplicationJSON || strings.HasSuffix(mediaType, ContentTypeJSONSuffix)
}

func readJSONBody(r *http.Request) (gjson.Result, error) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrUnsupportedContentType, r.Header.Get("Content-Type"))
	}

	if r.Body == nil || r.Body == http.NoBody {
		return gjson.Parse("null"), nil
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %w", ErrReadingBody, err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return gjson.Parse("null"), nil
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(body), nil
}

///////////////////////////////////////////////////////////////////////////////
// Middleware
///////////////////////////////////////////////////////////////////////////////

type MiddlewareOpts struct {
	// MaxBodyBytes limits the request body. Zero means DefaultMaxBodyBytes,
	// a negative value means no limit.
	MaxBodyBytes int64
	// OnError replaces the default JSON error response.
	OnError func(w http.ResponseWriter, r *http.Request, status int, err error)
	Logger  *slog.Logger
}

// Middleware returns net/http middleware that rejects requests whose body
// does not match schema. Accepted requests reach next with the body restored
// and available through BodyFromContext.
//
// Status codes: 415 for a non JSON Content-Type, 413 for an oversized body,
// 400 for an unreadable or malformed body, 422 for a body that does not
// match schema.
func Middleware(schema SchemaType, opts MiddlewareOpts) func(http.Handler) http.Handler {
	if schema == nil {
		panic("jsonfields: Middleware requires a schema")
	}

	limit := opts.MaxBodyBytes
	if limit == 0 {
		limit = DefaultMaxBodyBytes
	}
	logger := loggerOrNop(opts.Logger)
	onError := opts.OnError
	if onError == nil {
		onError = writeJSONError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			body, err := ValidateRequest(r, schema)
			if err != nil {
				status := statusFor(err)
				logger.Debug("rejected request body",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"err", err,
				)
				onError(w, r, status, err)
				return
			}

			ctx := context.WithValue(r.Context(), bodyContextKey{}, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func statusFor(err error) int {
	var (
		tooLarge   *http.MaxBytesError
		validation *SchemaTypeValidationError
	)
	switch {
	case errors.Is(err, ErrUnsupportedContentType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

type errorResponse struct {
	Error string   `json:"error"`
	Path  []string `json:"path,omitempty"`
}

func writeJSONError(w http.ResponseWriter, _ *http.Request, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var validation *SchemaTypeValidationError
	if errors.As(err, &validation) {
		resp.Path = validation.Path()
	}

	w.Header().Set("Content-Type", ContentTypeApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
