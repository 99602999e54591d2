// Package schema holds the fixed credential schema documents the wallet
// registers to the cloud agent's schema registry, one per credential type.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/xeipuuv/gojsonschema"
)

// Schema constants of the cloud agent's registry.
const (
	Version       = "1.0.0"
	JSONSchemaURI = "https://json-schema.org/draft/2020-12/schema"
	RegistryType  = "https://w3c-ccg.github.io/vc-json-schemas/schema/2.0/schema.json"
)

// ErrInvalidClaims is returned when claims don't fit the type's schema.
var ErrInvalidClaims = errors.New("claims don't match schema")

type property struct {
	name   string
	typ    string
	format string
}

var properties = map[pltype.CredType][]property{
	pltype.Passport: {
		{"name", "string", ""},
		{"dateOfIssuance", "string", "date-time"},
		{"passportNumber", "string", ""},
		{"dob", "string", "date"},
	},
	pltype.Ticket: {
		{"name", "string", ""},
		{"dateOfIssuance", "string", "date-time"},
		{"price", "number", ""},
		{"departure", "string", ""},
		{"arrival", "string", ""},
		{"flightId", "string", ""},
	},
}

var descriptions = map[pltype.CredType]string{
	pltype.Passport: "Passport credential of a traveller",
	pltype.Ticket:   "Flight ticket credential of a traveller",
}

// Name returns the registry name of the type's schema.
func Name(t pltype.CredType) string {
	return strings.ToLower(t.String())
}

// body returns the JSON schema document for the type without the $id and
// $schema keys.
func body(t pltype.CredType) map[string]any {
	props := make(map[string]any)
	required := make([]any, 0, len(properties[t]))
	for _, p := range properties[t] {
		prop := map[string]any{"type": p.typ}
		if p.format != "" {
			prop["format"] = p.format
		}
		props[p.name] = prop
		required = append(required, p.name)
	}
	return map[string]any{
		"description":          descriptions[t],
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": true,
	}
}

// Document returns the schema record to be created for the type. Author is
// the short form of the issuer DID.
func Document(t pltype.CredType, author string) remote.Schema {
	doc := body(t)
	doc["$id"] = "https://example.com/" + Name(t) + "-" + Version
	doc["$schema"] = JSONSchemaURI
	return remote.Schema{
		Name:        Name(t),
		Version:     Version,
		Description: descriptions[t],
		Type:        RegistryType,
		Author:      author,
		Tags:        []string{Name(t), "flight"},
		Schema:      doc,
	}
}

// Validate checks that the claims fit the type's schema document.
func Validate(t pltype.CredType, claims map[string]any) (err error) {
	defer err2.Handle(&err, "validate %s claims", t)

	if _, ok := properties[t]; !ok {
		return fmt.Errorf("unknown credential type %d", t)
	}
	res := try.To1(gojsonschema.Validate(
		gojsonschema.NewGoLoader(body(t)),
		gojsonschema.NewGoLoader(claims)))
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidClaims, strings.Join(msgs, "; "))
}
