package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task.schema.json
var taskSchema []byte

const taskSchemaURL = "https://taskpad.local/schemas/task.json"

const validMessage = "To-Do item is valid"

func compileTaskSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(taskSchemaURL, bytes.NewReader(taskSchema)); err != nil {
		return nil, fmt.Errorf("add task schema: %w", err)
	}
	schema, err := compiler.Compile(taskSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	return schema, nil
}

// SchemaError describes one way a document failed validation.
type SchemaError struct {
	InstancePath    string `json:"instancePath"`
	KeywordLocation string `json:"keywordLocation"`
	Message         string `json:"message"`
}

type validateResponse struct {
	Valid   bool          `json:"valid"`
	Message string        `json:"message,omitempty"`
	Errors  []SchemaError `json:"errors,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	doc, err := unmarshalJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logRequestError(r, http.StatusBadRequest, err)
		writeJSON(w, http.StatusBadRequest, validateResponse{
			Errors: []SchemaError{{Message: fmt.Sprintf("invalid JSON: %v", err)}},
		})
		return
	}

	if errs := s.Validate(doc); len(errs) > 0 {
		s.logger.Debug("validation failed", "errors", len(errs))
		writeJSON(w, http.StatusBadRequest, validateResponse{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Message: validMessage})
}

// Validate checks a decoded JSON document against the task schema and
// returns every leaf failure, or nil when the document is valid.
func (s *Server) Validate(doc any) []SchemaError {
	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []SchemaError{{Message: err.Error()}}
	}

	var out []SchemaError
	collectSchemaErrors(&out, ve)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstancePath < out[j].InstancePath
	})
	return out
}

func collectSchemaErrors(out *[]SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, SchemaError{
			InstancePath:    err.InstanceLocation,
			KeywordLocation: err.KeywordLocation,
			Message:         err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// ValidateJSON decodes r and validates it against the task schema.
func (s *Server) ValidateJSON(r io.Reader) ([]SchemaError, error) {
	doc, err := unmarshalJSON(r)
	if err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return s.Validate(doc), nil
}

// unmarshalJSON decodes a single JSON document from r with numbers kept as
// json.Number, the form jsonschema v5 expects for validation.
func unmarshalJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return doc, nil
}
