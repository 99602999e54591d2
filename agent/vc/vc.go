// Package vc decodes the wallet's stored JWT credentials into the known
// credential envelope shapes and finds the schema they were issued against.
package vc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/bluele/gcache"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mitchellh/mapstructure"
)

// DefaultCacheSize is the count of decoded credentials kept in memory.
const DefaultCacheSize = 128

// ErrShape is returned when a credential doesn't fit the requested envelope.
var ErrShape = errors.New("credential shape mismatch")

// SchemaRef is a credentialSchema entry of a credential.
type SchemaRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Status is a credentialStatus entry of a credential.
type Status struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	StatusPurpose        string `json:"statusPurpose"`
	StatusListIndex      int    `json:"statusListIndex"`
	StatusListCredential string `json:"statusListCredential"`
}

// PassportSubject is the credentialSubject of a Passport credential.
type PassportSubject struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DID            string `json:"did"`
	PassportNumber string `json:"passportNumber"`
	DOB            string `json:"dob"`
	DateOfIssuance string `json:"dateOfIssuance"`
}

func (s *PassportSubject) validate() error {
	if s.Name == "" || s.PassportNumber == "" || s.DOB == "" || s.DateOfIssuance == "" {
		return fmt.Errorf("passport subject: %w", ErrShape)
	}
	return nil
}

// TicketSubject is the credentialSubject of a Ticket credential.
type TicketSubject struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Flight         string  `json:"flight"`
	FlightID       string  `json:"flightId"`
	Price          float64 `json:"price"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	DateOfIssuance string  `json:"dateOfIssuance"`
}

func (s *TicketSubject) validate() error {
	if s.Flight == "" && s.FlightID == "" {
		return fmt.Errorf("ticket subject: %w", ErrShape)
	}
	return nil
}

// Credential is the vc claim of the envelope. Issuer is a DID string or an
// object with id and type. Subject is *PassportSubject or *TicketSubject by
// the shape the credential was decoded with.
type Credential struct {
	CredentialSchema []SchemaRef `json:"credentialSchema"`
	Type             []string    `json:"type"`
	Context          []string    `json:"@context"`
	Issuer           any         `json:"issuer"`
	CredentialStatus *Status     `json:"credentialStatus"`

	Subject any `json:"-"`
}

// Envelope is the JWT payload of a credential.
type Envelope struct {
	Iss string     `json:"iss"`
	Sub string     `json:"sub"`
	Nbf int64      `json:"nbf"`
	Exp int64      `json:"exp"`
	VC  Credential `json:"vc"`

	Type pltype.CredType `json:"-"`
}

// Decoder decodes raw JWT credentials. Decoded claims are cached by the raw
// credential. It's safe for concurrent use.
type Decoder struct {
	cache     gcache.Cache
	schemaIDs gval.Evaluable
}

var language = gval.Full(jsonpath.PlaceholderExtension())

// NewDecoder returns a decoder which caches size credentials.
func NewDecoder(size int) *Decoder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Decoder{
		cache: gcache.New(size).LRU().Build(),
		// credentialSchema is an object or an array of objects
		schemaIDs: try.To1(language.NewEvaluable("$.vc.credentialSchema..id")),
	}
}

// Claims returns the JWT payload of the raw credential. The signature isn't
// verified here, the Messaging Agent did that when it stored the credential.
func (d *Decoder) Claims(raw string) (claims map[string]any, err error) {
	if v, err := d.cache.Get(raw); err == nil {
		return v.(map[string]any), nil
	}
	defer err2.Handle(&err, "decode credential")

	tok := try.To1(jwt.ParseSigned(strings.TrimSpace(raw)))
	claims = make(map[string]any)
	try.To(tok.UnsafeClaimsWithoutVerification(&claims))
	if _, ok := claims["vc"].(map[string]any); !ok {
		return nil, fmt.Errorf("vc claim: %w", ErrShape)
	}
	_ = d.cache.Set(raw, claims)
	return claims, nil
}

// Decode decodes the credential into the envelope shape of the type. It
// returns ErrShape if the credential doesn't have the type's claims.
func (d *Decoder) Decode(raw string, t pltype.CredType) (e *Envelope, err error) {
	defer err2.Handle(&err, "decode %s", t)

	claims := try.To1(d.Claims(raw))
	e = &Envelope{Type: t}
	try.To(decode(claims, e))

	vcClaims, _ := claims["vc"].(map[string]any)
	subject, ok := vcClaims["credentialSubject"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("credentialSubject: %w", ErrShape)
	}
	switch t {
	case pltype.Passport:
		s := new(PassportSubject)
		try.To(decode(subject, s))
		try.To(s.validate())
		e.VC.Subject = s
	case pltype.Ticket:
		s := new(TicketSubject)
		try.To(decode(subject, s))
		try.To(s.validate())
		e.VC.Subject = s
	default:
		return nil, fmt.Errorf("unknown type %d: %w", t, ErrShape)
	}
	return e, nil
}

// SchemaIDs returns the credentialSchema ids of the raw credential.
func (d *Decoder) SchemaIDs(raw string) (ids []string, err error) {
	defer err2.Handle(&err, "schema ids")

	claims := try.To1(d.Claims(raw))
	return stringsOf(try.To1(d.schemaIDs(context.Background(), claims))), nil
}

// SchemaGUID decodes the credential under the type's shape and returns the
// GUID of the first schema id in the .../schemas/{GUID}/schema form.
func (d *Decoder) SchemaGUID(raw string, t pltype.CredType) (guid string, ok bool) {
	if _, err := d.Decode(raw, t); err != nil {
		glog.V(5).Infof("credential isn't %s: %v", t, err)
		return "", false
	}
	ids, err := d.SchemaIDs(raw)
	if err != nil {
		glog.V(5).Infoln("credential has no schema ids:", err)
		return "", false
	}
	for _, id := range ids {
		if guid, ok = SchemaGUID(id); ok {
			return guid, true
		}
	}
	return "", false
}

// SchemaGUID extracts {GUID} from a schema URL of the form
// .../schemas/{GUID}/schema. Anything else is no match.
func SchemaGUID(schemaURL string) (guid string, ok bool) {
	u, err := url.Parse(schemaURL)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	n := len(segs)
	if n < 3 || segs[n-1] != "schema" || segs[n-3] != "schemas" {
		return "", false
	}
	if _, err := uuid.Parse(segs[n-2]); err != nil {
		return "", false
	}
	return segs[n-2], true
}

// SchemaURL builds the schema id URL of the GUID. It's the inverse of
// SchemaGUID.
func SchemaURL(base, guid string) string {
	return strings.TrimSuffix(base, "/") + "/schema-registry/schemas/" + guid + "/schema"
}

func decode(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func stringsOf(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		ss := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				ss = append(ss, s)
			}
		}
		return ss
	}
	return nil
}
