package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrEmptyCart      = errors.New("cart is empty, nothing to checkout")
)

type Violation struct {
	PropertyPath string `json:"propertyPath,omitempty"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
}

// ViolationList is the envelope the server uses to report a rejected order.
// Context is kept raw since JSON-LD allows a string or an object there.
type ViolationList struct {
	Context    json.RawMessage `json:"@context"`
	Type       string          `json:"@type"`
	Violations []Violation     `json:"violations"`
}

// ParseViolationList reports whether body is a violation envelope: an object
// carrying @context, @type and a violations array. Only the shape is checked;
// violation fields of unexpected types are read as strings.
func ParseViolationList(body []byte) (*ViolationList, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, false
	}
	fields := doc.Map()
	ldContext, ok := fields["@context"]
	if !ok {
		return nil, false
	}
	kind, ok := fields["@type"]
	if !ok {
		return nil, false
	}
	violations := fields["violations"]
	if !violations.IsArray() {
		return nil, false
	}

	list := &ViolationList{
		Context:    json.RawMessage(ldContext.Raw),
		Type:       kind.String(),
		Violations: []Violation{},
	}
	violations.ForEach(func(_, v gjson.Result) bool {
		list.Violations = append(list.Violations, Violation{
			PropertyPath: v.Get("propertyPath").String(),
			Message:      v.Get("message").String(),
			Code:         v.Get("code").String(),
		})
		return true
	})
	return list, true
}

// ValidationError is returned by the API boundary when the server rejected a
// request with a violation envelope.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Failure is the outcome of a failed submission. Recognized is set only when
// the server answered with a violation envelope.
type Failure struct {
	Recognized bool
	Violations []Violation
	Err        error
}

func FailureFromError(err error) Failure {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Failure{
			Recognized: true,
			Violations: validationErr.Violations,
			Err:        err,
		}
	}
	return Failure{Err: err}
}

// FailureFromPayload classifies a raw response body.
func FailureFromPayload(body []byte) Failure {
	if list, ok := ParseViolationList(body); ok {
		return Failure{
			Recognized: true,
			Violations: list.Violations,
			Err:        &ValidationError{Violations: list.Violations},
		}
	}
	return Failure{Err: errors.New("unrecognized failure payload")}
}
