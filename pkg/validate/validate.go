// Package validate checks untrusted request payloads against declared
// shapes before they are decoded into typed request structs.
//
// Validation is collect-all: a ValidationError lists every failing field,
// sorted by field name.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
)

// MaxBodyBytes bounds the request bodies read by Decode
const MaxBodyBytes = 1 << 20

// FieldError is a single failing field. Field is empty when the failure
// concerns the payload as a whole.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports a payload that does not match its shape
type ValidationError struct {
	Shape  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Reason)
			continue
		}
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Shape, strings.Join(parts, "; "))
}

// ErrorCode implements errors.Coder
func (e *ValidationError) ErrorCode() iamerrors.ErrorCode {
	return iamerrors.ErrCodeInvalidArgument
}

func payloadError(shape, reason string) *ValidationError {
	return &ValidationError{Shape: shape, Fields: []FieldError{{Reason: reason}}}
}

// Validate checks raw against shape and, on success, decodes it into dst
func Validate(raw []byte, shape Shape, dst any) error {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return payloadError(shape.Name, "body is not valid JSON")
	}

	if err := shape.Schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return &ValidationError{Shape: shape.Name, Fields: fieldErrors(err)}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return payloadError(shape.Name, "body does not match the expected types")
	}
	return nil
}

// Decode reads the request body and validates it with Validate
func Decode(r *http.Request, shape Shape, dst any) error {
	if r.Body == nil {
		return payloadError(shape.Name, "body is required")
	}
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return payloadError(shape.Name, fmt.Sprintf("body exceeds %d bytes", MaxBodyBytes))
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	return Validate(raw, shape, dst)
}

// ParseID parses a path id, which must be a positive integer
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Shape: "path", Fields: []FieldError{{Field: "id", Reason: "must be a positive integer"}}}
	}
	return id, nil
}

func fieldErrors(err error) []FieldError {
	var out []FieldError
	collect(err, &out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field < out[j].Field
	})
	return out
}

func collect(err error, out *[]FieldError) {
	var me openapi3.MultiError
	if errors.As(err, &me) {
		for _, e := range me {
			collect(e, out)
		}
		return
	}

	var se *openapi3.SchemaError
	if !errors.As(err, &se) {
		*out = append(*out, FieldError{Reason: err.Error()})
		return
	}

	if se.Origin != nil {
		var nested openapi3.MultiError
		if errors.As(se.Origin, &nested) {
			collect(nested, out)
			return
		}
	}

	reason := se.Reason
	if se.SchemaField == "required" {
		reason = "is required"
	}
	*out = append(*out, FieldError{Field: strings.Join(se.JSONPointer(), "."), Reason: reason})
}
