package vc

import (
	"strings"

	"github.com/hyperledger/aries-framework-go/pkg/doc/did"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ShortDID returns the short form of a long-form DID, did:<method>:<first
// segment of the method specific id>. A short-form DID is returned as is.
func ShortDID(longForm string) (short string, err error) {
	defer err2.Handle(&err, "short DID")

	d := try.To1(did.Parse(longForm))
	id, _, _ := strings.Cut(d.MethodSpecificID, ":")
	return d.Scheme + ":" + d.Method + ":" + id, nil
}
