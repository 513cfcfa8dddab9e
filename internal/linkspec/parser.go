package linkspec

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultTable []byte

// DefaultName identifies the embedded table in error messages.
const DefaultName = "embedded link table"

// Default returns the embedded table for the supported tool release.
func Default() (*Table, error) {
	return Parse(defaultTable, DefaultName)
}

// Load reads, validates, and parses a table file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading link table %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates raw YAML against the schema and the semantic rules, then
// returns the typed table. origin names the data in error messages.
func Parse(data []byte, origin string) (*Table, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", origin, err)
	}
	if !result.Valid {
		return nil, &InvalidTableError{Origin: origin, Issues: result.Issues}
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", origin, err)
	}

	if issues := checkSemantics(&t); len(issues) > 0 {
		return nil, &InvalidTableError{Origin: origin, Issues: issues}
	}
	return &t, nil
}
