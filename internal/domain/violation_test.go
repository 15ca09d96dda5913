package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseViolationList_Envelope(t *testing.T) {
	body := []byte(`{"@context":"/api/contexts/ConstraintViolationList","@type":"ConstraintViolationList","violations":[{"propertyPath":"shippingAddress","message":"Address invalid"}]}`)

	list, ok := ParseViolationList(body)
	require.True(t, ok)
	assert.Equal(t, "ConstraintViolationList", list.Type)
	require.Len(t, list.Violations, 1)
	assert.Equal(t, "Address invalid", list.Violations[0].Message)
	assert.Equal(t, "shippingAddress", list.Violations[0].PropertyPath)
}

func TestParseViolationList_LenientFields(t *testing.T) {
	cases := map[string]string{
		"object context": `{"@context":{"@vocab":"http://x/"},"@type":"ConstraintViolationList","violations":[{"message":"Address invalid"}]}`,
		"numeric code":   `{"@context":"/c","@type":"ConstraintViolationList","violations":[{"message":"Address invalid","code":123}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			list, ok := ParseViolationList([]byte(body))
			require.True(t, ok)
			require.Len(t, list.Violations, 1)
			assert.Equal(t, "Address invalid", list.Violations[0].Message)
		})
	}

	list, _ := ParseViolationList([]byte(cases["numeric code"]))
	assert.Equal(t, "123", list.Violations[0].Code)

	failure := FailureFromPayload([]byte(cases["object context"]))
	assert.True(t, failure.Recognized)
	assert.Equal(t, "Address invalid", failure.Violations[0].Message)
}

func TestParseViolationList_NotAnEnvelope(t *testing.T) {
	cases := map[string]string{
		"empty object":       `{}`,
		"missing context":    `{"@type":"ConstraintViolationList","violations":[]}`,
		"missing type":       `{"@context":"x","violations":[]}`,
		"violations object":  `{"@context":"x","@type":"y","violations":{"message":"nope"}}`,
		"array":              `[{"message":"nope"}]`,
		"not json":           `<html>502 Bad Gateway</html>`,
		"empty body":         ``,
		"violations missing": `{"@context":"x","@type":"y"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseViolationList([]byte(body))
			assert.False(t, ok)
		})
	}
}

func TestParseViolationList_EmptyViolations(t *testing.T) {
	list, ok := ParseViolationList([]byte(`{"@context":"x","@type":"y","violations":[]}`))
	require.True(t, ok)
	assert.NotNil(t, list.Violations)
	assert.Empty(t, list.Violations)
}

func TestFailureFromError(t *testing.T) {
	validationErr := &ValidationError{Violations: []Violation{{Message: "Restaurant closed"}}}

	failure := FailureFromError(fmt.Errorf("checkout: %w", validationErr))
	assert.True(t, failure.Recognized)
	assert.Equal(t, "Restaurant closed", failure.Violations[0].Message)

	failure = FailureFromError(errors.New("connection reset"))
	assert.False(t, failure.Recognized)
	assert.Empty(t, failure.Violations)
}

func TestRestaurant_UnmarshalFulfillmentMethods(t *testing.T) {
	var declared Restaurant
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Crazy Pizza","hasMenu":true,"fulfillmentMethods":[{"type":"collection","enabled":true}]}`), &declared))
	assert.Equal(t, int64(1), declared.ID)
	assert.True(t, declared.HasMenu)
	require.Len(t, declared.FulfillmentMethods, 1)
	assert.Equal(t, FulfillmentCollection, declared.FulfillmentMethods[0].Type)

	var malformed Restaurant
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Pizza Express","fulfillmentMethods":"delivery"}`), &malformed))
	assert.Equal(t, "Pizza Express", malformed.Name)
	assert.Nil(t, malformed.FulfillmentMethods)

	var empty Restaurant
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"fulfillmentMethods":[]}`), &empty))
	assert.NotNil(t, empty.FulfillmentMethods)
	assert.Empty(t, empty.FulfillmentMethods)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	cart := &Cart{
		Items:       []CartItem{{ID: 1, Quantity: 1}},
		Adjustments: map[string][]Adjustment{AdjustmentDelivery: {{Amount: 350}}},
	}

	clone := cart.Clone()
	clone.Items[0].Quantity = 5
	clone.Adjustments[AdjustmentDelivery][0].Amount = 0

	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(350), cart.Adjustments[AdjustmentDelivery][0].Amount)
	assert.Equal(t, 5, clone.ItemsCount())
}
