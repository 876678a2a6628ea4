package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

const (
	requestSchema  = "RecipeRequest"
	maxRequestBody = 1 << 20
)

// Spec returns the embedded API description.
func Spec() []byte {
	return rawSpec
}

// LoadSpec parses and validates the embedded API description.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// requestValidator checks POST bodies against the RecipeRequest schema before
// they reach the handler. The body is buffered and replayed.
type requestValidator struct {
	schema *openapi3.Schema
}

func newRequestValidator(doc *openapi3.T) (*requestValidator, error) {
	ref, ok := doc.Components.Schemas[requestSchema]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("openapi spec has no %s schema", requestSchema)
	}
	return &requestValidator{schema: ref.Value}, nil
}

func (v *requestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := v.schema.VisitJSON(value); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request: "+schemaReason(err))
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// schemaReason shortens kin-openapi's multi-line error to its first line.
func schemaReason(err error) string {
	if se, ok := err.(*openapi3.SchemaError); ok && se.Reason != "" {
		return se.Reason
	}
	msg := err.Error()
	if i := bytes.IndexByte([]byte(msg), '\n'); i > 0 {
		return msg[:i]
	}
	return msg
}
