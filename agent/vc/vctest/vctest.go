// Package vctest builds JWT credentials for the tests.
package vctest

import (
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

// Subject returns typical credentialSubject claims of the type.
func Subject(t pltype.CredType) map[string]any {
	switch t {
	case pltype.Passport:
		return map[string]any{
			"id":             "did:prism:holder",
			"name":           "Jane Doe",
			"passportNumber": "X1234567",
			"dob":            "1990-01-01",
			"dateOfIssuance": "2025-01-18",
		}
	case pltype.Ticket:
		return map[string]any{
			"id":     "did:prism:holder",
			"flight": "FT-101",
			"price":  199.5,
		}
	}
	return map[string]any{}
}

// JWT returns a signed credential of the type issued against the schema URL.
func JWT(tb testing.TB, t pltype.CredType, schemaURL string) string {
	return Signed(tb, Claims(Subject(t), schemaURL))
}

// Claims returns JWT credential claims for the subject and the schema URL.
func Claims(subject map[string]any, schemaURL string) map[string]any {
	now := time.Now()
	return map[string]any{
		"iss": "did:prism:issuer",
		"sub": "did:prism:holder",
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"vc": map[string]any{
			"credentialSchema": []any{
				map[string]any{"id": schemaURL, "type": "JsonSchemaValidator2018"},
			},
			"credentialSubject": subject,
			"type":              []any{"VerifiableCredential"},
			"@context":          []any{"https://www.w3.org/2018/credentials/v1"},
			"issuer":            map[string]any{"id": "did:prism:issuer", "type": "Profile"},
			"credentialStatus": map[string]any{
				"id":                   "https://x/credential-status/1#0",
				"type":                 "StatusList2021Entry",
				"statusPurpose":        "Revocation",
				"statusListIndex":      0,
				"statusListCredential": "https://x/credential-status/1",
			},
		},
	}
}

// Signed signs the claims with a test key.
func Signed(tb testing.TB, claims map[string]any) string {
	tb.Helper()
	sig, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: testKey}, nil)
	if err != nil {
		tb.Fatal(err)
	}
	raw, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	if err != nil {
		tb.Fatal(err)
	}
	return raw
}
