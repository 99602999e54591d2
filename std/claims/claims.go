// Package claims builds the credential claims of each credential type the
// wallet asks the cloud agent to offer.
package claims

import (
	"fmt"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/std/schema"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mitchellh/mapstructure"
)

// DateLayout is the layout of date only claims like dob.
const DateLayout = "2006-01-02"

// Passport claims.
type Passport struct {
	Name           string `json:"name"`
	DateOfIssuance string `json:"dateOfIssuance"`
	PassportNumber string `json:"passportNumber"`
	DOB            string `json:"dob"`
}

// Ticket claims.
type Ticket struct {
	Name           string  `json:"name"`
	DateOfIssuance string  `json:"dateOfIssuance"`
	Price          float64 `json:"price"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	FlightID       string  `json:"flightId"`
}

// Claims is implemented by the typed claims.
type Claims interface {
	Type() pltype.CredType
}

func (Passport) Type() pltype.CredType { return pltype.Passport }
func (Ticket) Type() pltype.CredType   { return pltype.Ticket }

// NewPassport returns Passport claims issued now.
func NewPassport(name, passportNumber string, dob time.Time) Passport {
	return Passport{
		Name:           name,
		DateOfIssuance: Now(),
		PassportNumber: passportNumber,
		DOB:            dob.Format(DateLayout),
	}
}

// NewTicket returns Ticket claims issued now.
func NewTicket(name, flightID, departure, arrival string, price float64) Ticket {
	return Ticket{
		Name:           name,
		DateOfIssuance: Now(),
		Price:          price,
		Departure:      departure,
		Arrival:        arrival,
		FlightID:       flightID,
	}
}

// Now returns the current time in the dateOfIssuance format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Map converts the typed claims to the generic form of the offer request and
// validates them against the type's schema.
func Map(c Claims) (m map[string]any, err error) {
	defer err2.Handle(&err, "claims")

	m = make(map[string]any)
	try.To(decode(c, &m))
	try.To(schema.Validate(c.Type(), m))
	return m, nil
}

// FromMap converts generic claims to the typed claims of the type, e.g. when
// they come from the control API.
func FromMap(t pltype.CredType, m map[string]any) (c Claims, err error) {
	defer err2.Handle(&err, "claims")

	switch t {
	case pltype.Passport:
		p := Passport{DateOfIssuance: Now()}
		try.To(decode(m, &p))
		return p, nil
	case pltype.Ticket:
		tk := Ticket{DateOfIssuance: Now()}
		try.To(decode(m, &tk))
		return tk, nil
	}
	return nil, fmt.Errorf("unknown credential type %d", t)
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
