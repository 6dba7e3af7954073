package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/termtasks/internal/utils"
)

//go:embed tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "https://termtasks.local/tasks.schema.json"

// Schema returns the embedded JSON Schema for task files.
func Schema() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema with a schema file.
	// If the file is missing or invalid, only the built-in checks run.
	SchemaPath string
	// SkipSchema disables JSON Schema validation entirely.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Validate checks raw task file contents. JSON Schema validation runs
// first when available; the built-in checks always run because the schema
// cannot express id uniqueness or the completed/completed_at pairing.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	if !opts.SkipSchema {
		schema, warning := compileSchema(opts.SchemaPath)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if schema != nil {
			result.UsedSchema = true
			if err := schema.Validate(doc); err != nil {
				result.Valid = false
				appendSchemaErrors(result, err)
			}
		} else {
			result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		}
	}

	validateMinimal(doc, result)
	return result
}

// ValidateFile reads path and validates its contents.
func ValidateFile(path string, opts ValidationOptions) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	return Validate(data, opts), nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, string) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		schema, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		return schema, ""
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("schema file not found: %s", absPath)
		}
		return nil, fmt.Sprintf("failed to read schema file: %v", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// validateMinimal performs the checks that need no schema.
func validateMinimal(doc interface{}, result *ValidationResult) {
	items, ok := doc.([]interface{})
	if !ok {
		result.fail(&ValidationError{Err: errors.New("expected a JSON array of tasks")})
		return
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)
		obj, ok := item.(map[string]interface{})
		if !ok {
			result.fail(&ValidationError{Path: path, Err: errors.New("expected an object")})
			continue
		}

		id, _ := obj["id"].(string)
		if id == "" {
			result.fail(&ValidationError{Path: path + ".id", Err: errors.New("missing required field")})
		} else if first, dup := seen[id]; dup {
			result.fail(&ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %q (first at [%d])", id, first)})
		} else {
			seen[id] = i
		}

		text, _ := obj["text"].(string)
		if strings.TrimSpace(text) == "" {
			result.fail(&ValidationError{Path: path + ".text", Err: ErrEmptyText})
		}

		if raw, present := obj["priority"]; !present || raw == nil {
			result.Warnings = append(result.Warnings, path+".priority: missing, treated as NONE")
		} else if s, _ := raw.(string); !Priority(s).Valid() {
			result.fail(&ValidationError{Path: path + ".priority", Err: fmt.Errorf("%w %v", ErrInvalidPriority, raw)})
		}

		if raw, present := obj["due_date"]; present && raw != nil {
			s, _ := raw.(string)
			if d, err := ParseDate(s); err != nil {
				result.fail(&ValidationError{Path: path + ".due_date", Err: err})
			} else if d.String() != strings.TrimSpace(s) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s.due_date: %q is rewritten as %s on next save", path, s, d))
			}
		}

		completed, _ := obj["completed"].(bool)
		completedAt, _ := obj["completed_at"].(string)
		switch {
		case completed && completedAt == "":
			result.fail(&ValidationError{Path: path + ".completed_at", Err: errors.New("required when completed is true")})
		case !completed && completedAt != "":
			result.fail(&ValidationError{Path: path + ".completed_at", Err: errors.New("must be null when completed is false")})
		}
	}
}
