package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var errSpecUnavailable = errors.New("openapi spec unavailable")

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger returns the parsed and validated OpenAPI document served by this adapter.
var GetSwagger = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// validateBody checks a decoded JSON body against a named component schema.
func validateBody(schemaName string, body any) error {
	doc, err := GetSwagger()
	if err != nil {
		return fmt.Errorf("%w: %v", errSpecUnavailable, err)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("%w: schema %q not found", errSpecUnavailable, schemaName)
	}
	return ref.Value.VisitJSON(body)
}
