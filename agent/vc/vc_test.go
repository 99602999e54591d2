package vc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/vc/vctest"
	"github.com/lainio/err2/assert"
)

const (
	passportGUID = "5e3f2f7a-2a0b-4a51-8c8a-0b1f27d1c1a1"
	ticketGUID   = "9c1d6b52-7e2f-4f4e-9d3c-2b8f8f2d1e0c"
	base         = "http://localhost/cloud-agent"
)

func TestSchemaGUID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"valid", "https://host/x/schema-registry/schemas/" + passportGUID + "/schema", passportGUID, true},
		{"valid trailing slash", base + "/schema-registry/schemas/" + ticketGUID + "/schema/", ticketGUID, true},
		{"no schema suffix", base + "/schema-registry/schemas/" + passportGUID, "", false},
		{"not a guid", base + "/schema-registry/schemas/passport/schema", "", false},
		{"wrong collection", base + "/schema-registry/things/" + passportGUID + "/schema", "", false},
		{"relative", "schemas/" + passportGUID + "/schema", "", false},
		{"garbage", "::%%", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			guid, ok := SchemaGUID(tt.url)
			assert.Equal(ok, tt.ok)
			assert.Equal(guid, tt.want)
		})
	}
}

func TestSchemaURL(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	u := SchemaURL(base+"/", passportGUID)
	assert.Equal(u, base+"/schema-registry/schemas/"+passportGUID+"/schema")
	guid, ok := SchemaGUID(u)
	assert.That(ok)
	assert.Equal(guid, passportGUID)
}

func TestDecode(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	d := NewDecoder(0)
	passport := vctest.JWT(t, pltype.Passport, SchemaURL(base, passportGUID))
	ticket := vctest.JWT(t, pltype.Ticket, SchemaURL(base, ticketGUID))

	e, err := d.Decode(passport, pltype.Passport)
	assert.NoError(err)
	assert.Equal(e.Iss, "did:prism:issuer")
	s, ok := e.VC.Subject.(*PassportSubject)
	assert.That(ok)
	assert.Equal(s.PassportNumber, "X1234567")
	assert.SLen(e.VC.CredentialSchema, 1)

	_, err = d.Decode(passport, pltype.Ticket)
	assert.That(errors.Is(err, ErrShape))

	e, err = d.Decode(ticket, pltype.Ticket)
	assert.NoError(err)
	ts := e.VC.Subject.(*TicketSubject)
	assert.Equal(ts.Flight, "FT-101")
	assert.Equal(ts.Price, 199.5)

	_, err = d.Decode(ticket, pltype.Passport)
	assert.That(errors.Is(err, ErrShape))

	_, err = d.Decode("not.a.jwt", pltype.Passport)
	assert.Error(err)
}

func TestDecoderSchemaGUID(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	d := NewDecoder(2)
	passport := vctest.JWT(t, pltype.Passport, SchemaURL(base, passportGUID))

	guid, ok := d.SchemaGUID(passport, pltype.Passport)
	assert.That(ok)
	assert.Equal(guid, passportGUID)

	_, ok = d.SchemaGUID(passport, pltype.Ticket)
	assert.That(!ok)

	malformed := vctest.Signed(t, vctest.Claims(vctest.Subject(pltype.Passport),
		base+"/schema-registry/schemas/passport"))
	_, ok = d.SchemaGUID(malformed, pltype.Passport)
	assert.That(!ok)
}

func TestSingleSchemaObject(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	claims := vctest.Claims(vctest.Subject(pltype.Ticket), "")
	claims["vc"].(map[string]any)["credentialSchema"] = map[string]any{
		"id":   SchemaURL(base, ticketGUID),
		"type": "JsonSchemaValidator2018",
	}
	raw := vctest.Signed(t, claims)

	d := NewDecoder(1)
	ids, err := d.SchemaIDs(raw)
	assert.NoError(err)
	assert.SLen(ids, 1)
	guid, ok := d.SchemaGUID(raw, pltype.Ticket)
	assert.That(ok)
	assert.Equal(guid, ticketGUID)
}

func TestSchemaGUIDsIn(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	body := json.RawMessage(`{
		"goal_code":"Offer Credential",
		"credential_preview":{"schema_ids":["` + SchemaURL(base, passportGUID) + `"]}
	}`)
	attachments := json.RawMessage(`[{"data":{"json":{
		"options":{"challenge":"c"},
		"schemaId":"` + SchemaURL(base, ticketGUID) + `",
		"again":{"schema_id":"` + SchemaURL(base, passportGUID) + `"}}}}]`)

	guids := SchemaGUIDsIn(body, attachments, nil, json.RawMessage(`not json`))
	assert.DeepEqual(guids, []string{passportGUID, ticketGUID})

	assert.SLen(SchemaGUIDsIn(json.RawMessage(`{"x":1}`)), 0)
}

func TestShortDID(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	short, err := ShortDID("did:prism:4a5b6c:Cr4BCrsBElsKBmF1dGgtMRAEQk8KCXNlY3AyNTZrMRIg")
	assert.NoError(err)
	assert.Equal(short, "did:prism:4a5b6c")

	short, err = ShortDID("did:prism:4a5b6c")
	assert.NoError(err)
	assert.Equal(short, "did:prism:4a5b6c")

	_, err = ShortDID("prism:4a5b6c")
	assert.Error(err)
}
