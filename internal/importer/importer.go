// ABOUTME: Bulk import of study sessions from JSON or YAML files
// ABOUTME: Validates the document against an embedded schema, then creates sessions one by one

package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/markalston/study-tracker/internal/client"
	"github.com/markalston/study-tracker/internal/validate"
)

//go:embed schema/sessions.schema.json
var schemaBytes []byte

const schemaName = "sessions.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ErrInvalid is returned by Parse when the document fails validation
var ErrInvalid = errors.New("import file is invalid")

// Issue is a single validation failure
type Issue struct {
	Path    string // instance location, e.g. "/0/minutes"
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError lists every issue found in an import document
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// getSchema compiles the embedded JSON schema once and returns it
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaName, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaName)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Parse validates a JSON or YAML document and returns the sessions it
// holds. Schema failures are reported as *ValidationError.
func Parse(data []byte) ([]client.SessionInput, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	// YAML is a superset of JSON, so one decoder covers both formats
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	if raw == nil {
		return nil, &ValidationError{Issues: []Issue{{Message: "file is empty"}}}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return nil, &ValidationError{Issues: extractIssues(ve)}
	}

	var rows []client.SessionInput
	if bytes.HasPrefix(bytes.TrimSpace(jsonData), []byte("{")) {
		var page struct {
			Items []client.SessionInput `json:"items"`
		}
		err = json.Unmarshal(jsonData, &page)
		rows = page.Items
	} else {
		err = json.Unmarshal(jsonData, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}

	// Calendar checks the schema pattern cannot express
	var issues []Issue
	for i, row := range rows {
		if err := validate.Date(row.SessionDate); err != nil {
			issues = append(issues, Issue{Path: fmt.Sprintf("/%d/session_date", i), Message: err.Error()})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return rows, nil
}

// ParseFile reads and parses an import file. Files larger than maxSize are
// rejected before reading; zero means no limit.
func ParseFile(path string, maxSize datasize.ByteSize) ([]client.SessionInput, error) {
	if maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading import file: %w", err)
		}
		if size := datasize.ByteSize(info.Size()); size > maxSize {
			return nil, fmt.Errorf("import file is %s, larger than the %s limit", size.HR(), maxSize.HR())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return Parse(data)
}

// extractIssues walks the error tree and returns leaf-level issues
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}

	seen := make(map[string]bool)
	var result []Issue
	for _, issue := range issues {
		key := issue.String()
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	keyword := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
	}
	// Container keywords only repeat their causes
	if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	*issues = append(*issues, Issue{Path: path, Message: ve.ErrorKind.LocalizedString(printer)})
}

// Creator creates a single session
type Creator interface {
	CreateSession(ctx context.Context, in client.SessionInput) (*client.Session, error)
}

// Result is the outcome for one row
type Result struct {
	Row     int // 1-based
	Input   client.SessionInput
	Session *client.Session
	Err     error
}

// Run creates each session in order. A failed row does not stop the
// import; a canceled context does.
func Run(ctx context.Context, c Creator, rows []client.SessionInput) []Result {
	results := make([]Result, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Row: i + 1, Input: row, Err: err})
			break
		}

		s, err := c.CreateSession(ctx, row)
		if err != nil {
			slog.Debug("Import row failed", "row", i+1, "error", err)
		}
		results = append(results, Result{Row: i + 1, Input: row, Session: s, Err: err})
	}
	return results
}

// Counts returns how many results succeeded and failed
func Counts(results []Result) (created, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			created++
		}
	}
	return created, failed
}
