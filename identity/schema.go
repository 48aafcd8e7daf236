package identity

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var loginResponseSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["user", "accessToken"],
	"properties": {
		"user": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id":       {"type": ["string", "integer"], "minLength": 1},
				"username": {"type": "string"},
				"fullname": {"type": ["string", "null"]},
				"bio":      {"type": ["string", "null"]}
			}
		},
		"accessToken":  {"type": "string", "minLength": 1},
		"refreshToken": {"type": ["string", "null"]}
	}
}`)

var profileResponseSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"id": {"type": ["string", "integer"]},
		"permissions": {
			"type": ["object", "null"],
			"properties": {
				"raw": {"type": ["array", "null"], "items": {"type": "string"}},
				"resources": {
					"type": ["object", "null"],
					"additionalProperties": {
						"type": "object",
						"additionalProperties": {"type": "boolean"}
					}
				}
			}
		}
	}
}`)

// validateBody checks a JSON document against a schema and joins the violations.
func validateBody(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}
