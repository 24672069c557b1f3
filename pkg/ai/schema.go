package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// Schema returns the JSON schema of value's type, inlined and closed to
// additional properties, as tool argument schemas expect.
func Schema(value any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflector.Reflect(reflect.New(t).Interface())
}

// DecodeToolArguments decodes tool call arguments produced by a model.
// Besides plain JSON it accepts a JSON document encoded as a string, a
// doubled leading brace, and anything jsonrepair can fix (trailing
// commas, single quotes, unquoted keys).
func DecodeToolArguments(input string, out any) error {
	input = strings.TrimSpace(input)
	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var inner string
	if err := json.Unmarshal([]byte(input), &inner); err == nil {
		inner = strings.TrimSpace(inner)
		if err := json.Unmarshal([]byte(inner), out); err == nil {
			return nil
		}
		input = inner
	}

	if rest, ok := strings.CutPrefix(input, "{"); ok {
		if rest = strings.TrimSpace(rest); strings.HasPrefix(rest, "{") {
			input = rest
		}
	}
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("repair tool arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("decode repaired tool arguments: %w", err)
	}
	return nil
}
