package openapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// ComponentsPointer prefixes the pointer of every component schema.
const ComponentsPointer = "#/components/schemas/"

// ErrUnknownModel reports a model name absent from components.schemas.
var ErrUnknownModel = errors.New("openapi: unknown model")

// Models lists the component schema names in sorted order.
func Models(ctx context.Context, raw []byte) ([]string, error) {
	oas, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(oas.Components.Schemas))
	for name := range oas.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Document builds {"$ref": "#/components/schemas/<model>", "components":
// {"schemas": ...}} from an OpenAPI document. References between component
// schemas are kept as "$ref" nodes so foreign references can be detected.
func Document(ctx context.Context, raw []byte, model string) (*schema.Node, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("openapi: model name is required")
	}
	oas, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if _, ok := oas.Components.Schemas[model]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, model)
	}

	encoded, err := json.Marshal(oas.Components.Schemas)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode component schemas: %w", err)
	}
	schemas, err := schema.DecodeJSON(encoded)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	components := schema.Object()
	components.Set("schemas", schemas)

	root := schema.Reference(ComponentsPointer + model)
	root.Set("components", components)
	return root, nil
}

func load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	oas, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if oas.Components == nil || len(oas.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document does not declare component schemas")
	}
	return oas, nil
}
