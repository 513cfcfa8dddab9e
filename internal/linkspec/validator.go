package linkspec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/linkspec.schema.json
var schemaBytes []byte

var printer = message.NewPrinter(language.English)

var tableSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("linkspec.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("linkspec.schema.json")
})

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is a single problem found in a table.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/links/0/dest")
	Message string
	Keyword string // Schema keyword that failed, empty for semantic checks
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// InvalidTableError reports every issue found in a rejected table.
type InvalidTableError struct {
	Origin string
	Issues []ValidationIssue
}

func (e *InvalidTableError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s has %d validation issue(s): %s", e.Origin, len(e.Issues), strings.Join(parts, "; "))
}

// Validate checks raw YAML bytes against the link table schema. Malformed
// YAML is an error; schema violations are reported in the result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := tableSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling link table schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	// The validator expects JSON-decoded values.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	return &ValidationResult{Issues: leafIssues(ve, nil)}, nil
}

// leafIssues flattens the error tree. Inner nodes ($ref, items) only say
// that something below them failed.
func leafIssues(ve *jsonschema.ValidationError, issues []ValidationIssue) []ValidationIssue {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			issues = leafIssues(cause, issues)
		}
		return issues
	}

	issue := ValidationIssue{Message: ve.Error()}
	if len(ve.InstanceLocation) > 0 {
		issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	if ve.ErrorKind != nil {
		issue.Message = ve.ErrorKind.LocalizedString(printer)
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			issue.Keyword = kw[len(kw)-1]
		}
	}
	return append(issues, issue)
}

// checkSemantics enforces the rules the schema cannot express: paths must
// stay inside their root, and names and destinations must be unique.
func checkSemantics(t *Table) []ValidationIssue {
	var issues []ValidationIssue
	names := make(map[string]int)
	dests := make(map[string]int)

	for i, l := range t.Links {
		at := fmt.Sprintf("/links/%d", i)

		if !filepath.IsLocal(l.Dest) || filepath.Clean(l.Dest) == "." {
			issues = append(issues, ValidationIssue{
				Path:    at + "/dest",
				Message: fmt.Sprintf("%q must be a relative path inside the working copy", l.Dest),
			})
		}
		// "." is allowed for source: it links the whole tool root.
		if !filepath.IsLocal(l.Source) {
			issues = append(issues, ValidationIssue{
				Path:    at + "/source",
				Message: fmt.Sprintf("%q must be a relative path inside the tool root", l.Source),
			})
		}

		if prev, ok := names[l.Name]; ok {
			issues = append(issues, ValidationIssue{
				Path:    at + "/name",
				Message: fmt.Sprintf("duplicate name %q (first at /links/%d)", l.Name, prev),
			})
		} else {
			names[l.Name] = i
		}

		dest := filepath.Clean(l.Dest)
		if prev, ok := dests[dest]; ok {
			issues = append(issues, ValidationIssue{
				Path:    at + "/dest",
				Message: fmt.Sprintf("duplicate destination %q (first at /links/%d)", l.Dest, prev),
			})
		} else {
			dests[dest] = i
		}
	}
	return issues
}
