package names

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed data/surnames.json
var defaultSurnames []byte

// Surname is one row of the surname table: a Chinese surname and its
// romanizations across regions.
type Surname struct {
	Index   int      `json:"index"`
	Char    string   `json:"char"`
	CharRaw string   `json:"char_raw"`
	Pinyin  []string `json:"pinyin"`
}

var surnameSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"index", "char", "pinyin"},
		"properties": map[string]any{
			"index":    map[string]any{"type": "integer", "minimum": 0},
			"char":     map[string]any{"type": "string", "minLength": 1},
			"char_raw": map[string]any{"type": "string"},
			"pinyin": map[string]any{
				"type":        "array",
				"minItems":    1,
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("surnames.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("surnames.schema.json")
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

// LoadSurnameTable decodes and validates a surname table.
func LoadSurnameTable(r io.Reader) ([]Surname, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read surname table: %w", err)
	}
	if err := validateJSONAgainstSchema(surnameSchema, data); err != nil {
		return nil, fmt.Errorf("surname table: %w", err)
	}
	var table []Surname
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode surname table: %w", err)
	}
	return table, nil
}

// DefaultSurnameTable returns the embedded table.
func DefaultSurnameTable() []Surname {
	table, err := LoadSurnameTable(bytes.NewReader(defaultSurnames))
	if err != nil {
		panic(fmt.Sprintf("embedded surname table: %v", err))
	}
	return table
}

// romanizations flattens a table into a lower-cased lookup set.
func romanizations(table []Surname) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range table {
		for _, p := range s.Pinyin {
			set[strings.ToLower(p)] = struct{}{}
		}
	}
	return set
}
