package schema

import (
	"errors"
	"testing"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/lainio/err2/assert"
)

func TestDocument(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	doc := Document(pltype.Passport, "did:prism:issuer")
	assert.Equal(doc.Name, "passport")
	assert.Equal(doc.Author, "did:prism:issuer")
	assert.Equal(doc.Version, Version)

	var js map[string]any
	dto.FromJSON(dto.ToJSONBytes(doc), &js)
	inner := js["schema"].(map[string]any)
	assert.Equal(inner["$schema"], any(JSONSchemaURI))
	assert.SLen(inner["required"].([]any), 4)

	ticket := Document(pltype.Ticket, "did:prism:issuer")
	assert.Equal(ticket.Name, "ticket")
	assert.MLen(ticket.Schema["properties"].(map[string]any), 6)
}

func TestValidate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	err := Validate(pltype.Passport, map[string]any{
		"name":           "Jane Doe",
		"dateOfIssuance": "2025-01-18T10:00:00Z",
		"passportNumber": "X1234567",
		"dob":            "1990-01-01",
	})
	assert.NoError(err)

	err = Validate(pltype.Passport, map[string]any{"name": "Jane Doe"})
	assert.That(errors.Is(err, ErrInvalidClaims))

	err = Validate(pltype.Ticket, map[string]any{
		"name":           "Jane Doe",
		"dateOfIssuance": "2025-01-18T10:00:00Z",
		"price":          "cheap",
		"departure":      "HEL",
		"arrival":        "SFO",
		"flightId":       "FT-101",
	})
	assert.That(errors.Is(err, ErrInvalidClaims))

	assert.Error(Validate(pltype.CredType(9), nil))
}
