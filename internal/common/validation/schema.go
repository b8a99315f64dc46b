// Package validation checks admin API payloads against JSON schemas before
// they reach the record layer.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"recruit-admin/internal/common/errors"
)

// statusUpdateSchema guards PATCH status payloads. The note ("observacao")
// is optional; persistence of it is governed by row-level security, not here.
const statusUpdateSchema = `{
	"type": "object",
	"properties": {
		"status": {"type": "string", "minLength": 1},
		"observacao": {"type": ["string", "null"], "maxLength": 2000}
	},
	"required": ["status"],
	"additionalProperties": false
}`

const commentSchema = `{
	"type": "object",
	"properties": {
		"comentario": {"type": "string", "minLength": 1, "maxLength": 4000},
		"tipo": {"type": "string", "enum": ["observacao", "entrevista", "sistema"]}
	},
	"required": ["comentario"],
	"additionalProperties": false
}`

const presetSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 120},
		"filters": {"type": "object"}
	},
	"required": ["name", "filters"],
	"additionalProperties": false
}`

const experienceStartSchema = `{
	"type": "object",
	"properties": {
		"candidatura_id": {"type": "string", "minLength": 1},
		"contract_type": {"type": "string", "enum": ["40days", "80days"]}
	},
	"required": ["candidatura_id", "contract_type"],
	"additionalProperties": false
}`

var schemas = map[string]*gojsonschema.Schema{}

func init() {
	for name, raw := range map[string]string{
		"status_update":    statusUpdateSchema,
		"comment":          commentSchema,
		"preset":           presetSchema,
		"experience_start": experienceStartSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("invalid embedded schema %q: %v", name, err))
		}
		schemas[name] = schema
	}
}

// Validate checks a raw JSON document against a named schema and returns a
// VALIDATION_ERROR listing every violation.
func Validate(schemaName string, document []byte) error {
	schema, ok := schemas[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return errors.NewValidationError(schemaName, fmt.Sprintf("malformed JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.NewValidationError(schemaName, strings.Join(details, "; "))
}
