package localtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"toolagentd/internal/domain"
)

const GenerateNumberName = "demo.generate_number"

const (
	generateNumberDefault = 10
	generateNumberMin     = -1_000_000
	generateNumberMax     = 1_000_000
)

// BuiltinSpecs returns the tools registered in every process.
func BuiltinSpecs() []Spec {
	return []Spec{generateNumberSpec()}
}

func generateNumberSpec() Spec {
	return Spec{
		Name:        GenerateNumberName,
		Description: "Returns the provided integer (defaults to 10). Useful for diagnostics and tests.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"value": {
					Type:        "integer",
					Description: "The integer to echo back.",
					Default:     json.RawMessage(fmt.Sprint(generateNumberDefault)),
					Minimum:     f64(generateNumberMin),
					Maximum:     f64(generateNumberMax),
				},
			},
			// reject unknown arguments
			AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
		},
		Handler: generateNumber,
	}
}

func generateNumber(_ context.Context, args map[string]any) (domain.ToolOutput, error) {
	value := int64(generateNumberDefault)
	if raw, ok := args["value"]; ok {
		switch v := raw.(type) {
		case float64:
			value = int64(v)
		case int:
			value = int64(v)
		case int64:
			value = v
		case json.Number:
			parsed, err := v.Int64()
			if err != nil {
				return domain.ToolOutput{}, domain.E(domain.CodeInvalidArgument, "localtools.generate_number",
					fmt.Sprintf("value is not an integer: %v", err), err)
			}
			value = parsed
		}
	}
	return domain.ToolOutput{
		Content: fmt.Sprintf("%s produced value: %d", GenerateNumberName, value),
	}, nil
}

func f64(v float64) *float64 {
	return &v
}
