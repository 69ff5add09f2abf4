package shopify

import (
	"fmt"
	"strings"
)

// StatusError is returned when the Admin API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shopify API returned status %d: %s", e.StatusCode, e.Body)
}

// GraphQLError is one entry of the top-level "errors" array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

// GraphQLErrors is returned when the response carries top-level errors, which
// Shopify does with HTTP 200 (bad queries, throttling, missing scopes).
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ge := range e {
		msgs = append(msgs, ge.Message)
	}
	return "shopify GraphQL errors: " + strings.Join(msgs, "; ")
}

// UserError is a business-rule validation failure reported inside a
// successful mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// UserErrors wraps a non-empty userErrors list as an error.
type UserErrors []UserError

func (e UserErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ue := range e {
		if len(ue.Field) == 0 {
			parts = append(parts, ue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
	}
	return "shopify user errors: " + strings.Join(parts, "; ")
}

// First returns the message of the first user error.
func (e UserErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}
