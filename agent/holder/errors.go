package holder

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned by the credential operations before the startup
// has started the dispatcher.
var ErrNotStarted = errors.New("holder not started")

// ProvisioningKind tells which startup step failed.
type ProvisioningKind int

const (
	SeedPersistence ProvisioningKind = iota + 1
	MessagingStart
	Connection
	IssuerIdentity
	Publication
	Schema
)

func (k ProvisioningKind) String() string {
	switch k {
	case SeedPersistence:
		return "seed persistence"
	case MessagingStart:
		return "messaging start"
	case Connection:
		return "connection"
	case IssuerIdentity:
		return "issuer identity"
	case Publication:
		return "publication"
	case Schema:
		return "schema"
	}
	return fmt.Sprintf("ProvisioningKind(%d)", int(k))
}

// ProvisioningError is a failed startup step. The steps before it aren't
// rolled back; the next startup continues from the persisted state.
type ProvisioningError struct {
	Kind ProvisioningKind
	Err  error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %s: %v", e.Kind, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Is matches another *ProvisioningError by its Kind.
func (e *ProvisioningError) Is(target error) bool {
	t, ok := target.(*ProvisioningError)
	return ok && t.Kind == e.Kind
}

func provisioningErr(k ProvisioningKind, err error) error {
	if err == nil {
		return nil
	}
	return &ProvisioningError{Kind: k, Err: err}
}
