package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

// BuildFieldSchema returns the JSON-Schema (draft 2020-12 subset) that an
// assistant reply must satisfy for the given category. All properties are
// optional: a reply that recovers only one field is still an enhancement.
func BuildFieldSchema(docType constants.DocType) map[string]any {
	var props map[string]any
	switch docType {
	case constants.IdentityCard:
		props = map[string]any{
			"surname":     nameProp(),
			"given_name":  nameProp(),
			"expiry_date": dateProp(),
		}
	case constants.ElectricalAuthorization:
		props = map[string]any{
			"surname":    nameProp(),
			"given_name": nameProp(),
			"issue_date": dateProp(),
			"level":      map[string]any{"type": "string", "pattern": `^[BHbh][0-9VRTvrt]+$`},
		}
	case constants.SafetyDataSheet:
		props = map[string]any{
			"product":          map[string]any{"type": "string", "minLength": 1},
			"publication_year": map[string]any{"type": "integer", "minimum": 1900, "maximum": 2100},
			"revision_date":    dateProp(),
		}
	case constants.RefrigerationAptitude:
		props = map[string]any{
			"surname":    nameProp(),
			"given_name": nameProp(),
			"category":   map[string]any{"type": "string", "pattern": `^[IVXivx]+$`},
		}
	default:
		props = map[string]any{}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}

func nameProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d{2,4}[/.\-]\d{2}[/.\-]\d{2,4}$`,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
