package session

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var claimsSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["jti", "sub", "exp", "iat", "user", "accessToken", "refreshToken"],
	"properties": {
		"jti": {"type": "string", "minLength": 1},
		"sub": {"type": "string", "minLength": 1},
		"user": {
			"type": "object",
			"required": ["id"],
			"properties": {"id": {"type": "string", "minLength": 1}}
		},
		"accessToken":  {"type": "string", "minLength": 1},
		"refreshToken": {"type": "string", "minLength": 1}
	}
}`)

// validateClaims checks a verified payload before it is trusted as a session.
func validateClaims(c *Claims) error {
	result, err := gojsonschema.Validate(claimsSchema, gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("claims schema: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("claims schema: %s", strings.Join(msgs, "; "))
}
