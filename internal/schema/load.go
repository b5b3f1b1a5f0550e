package schema

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadMode controls how errors are handled during schema loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Schema is the set of tables loaded from a directory.
type Schema struct {
	Tables    []Table
	FileCount int // Number of CUE files found
}

// Table looks up a table by name.
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes reported by LoadDir.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodePrimaryKey  = "E201" // Missing or invalid primary key
	ErrCodeColumns     = "E202" // Missing or duplicate columns
	ErrCodeIndexes     = "E203" // Invalid index definition
	ErrCodeInvalidType = "E204" // Unsupported column type (e.g., float)
)

// MapFieldToErrorCode maps a CompileError field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "primary_key":
		return ErrCodePrimaryKey
	case "columns":
		return ErrCodeColumns
	case "type":
		return ErrCodeInvalidType
	case "indexes":
		return ErrCodeIndexes
	}
	if strings.HasPrefix(field, "indexes.") {
		return ErrCodeIndexes
	}
	return ErrCodeGeneric
}

// LoadDir loads every table under the top-level "table" field of the CUE
// package in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDir(dir string, mode LoadMode) (*Schema, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	s, errs := compileTables(value, mode)
	if s != nil {
		s.FileCount = len(cueFiles)
		slog.Debug("schema loaded", "dir", dir, "files", len(cueFiles), "tables", len(s.Tables))
	}
	return s, errs
}

// LoadString compiles CUE source text. It is the in-memory counterpart of
// LoadDir, used by scenarios that embed their schema.
func LoadString(src string, mode LoadMode) (*Schema, []error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, []error{convertCompileError(formatCUEError(err), "schema")}
	}
	return compileTables(value, mode)
}

func compileTables(value cue.Value, mode LoadMode) (*Schema, []error) {
	var errs []error
	s := &Schema{}

	tablesVal := value.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return s, []error{&LoadError{Code: ErrCodeGeneric, Message: "no tables found in schema"}}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return s, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating tables: %v", err)}}
	}
	for iter.Next() {
		t, compileErr := CompileTable(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "table."+iter.Label()))
			if mode == LoadModeFailFast {
				return s, errs
			}
			continue
		}
		s.Tables = append(s.Tables, *t)
	}

	if len(s.Tables) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no tables found in schema"})
	}
	return s, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a CompileError to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
