/*
Package keychain is the typed view to the wallet's persisted state. It names
the keys the holder stores to its Secret Store and converts values to and from
their byte form. The Secret Store itself is usually an enclave.Enclave.
*/
package keychain

import (
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Key names of the persisted state.
const (
	KeyWalletSeed     = "WalletSeed"
	KeyConnectionID   = "CloudAgentConnectionId"
	KeyIssuerDID      = "IssuerDID"
	KeyDispatchCursor = "DispatchCursor"

	prefixSchemaID  = "SchemaId."
	prefixVCThid    = "VCThid."
	prefixProofThid = "ProofThid."
)

// SeedLength is the byte length of a wallet seed.
const SeedLength = 64

// ErrNotFound is returned by the Must getters when the key has no value.
var ErrNotFound = errors.New("not found from keychain")

// Store is the Secret Store. Get's found is false for a missing key, which is
// not an error.
type Store interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Keychain offers typed accessors on top of the Store.
type Keychain struct {
	Store
}

// New returns a Keychain for the store.
func New(s Store) *Keychain {
	return &Keychain{Store: s}
}

// SchemaIDKey returns the key of the schema GUID of the credential type.
func SchemaIDKey(t pltype.CredType) string {
	return prefixSchemaID + t.String()
}

// VCThidKey returns the key of the pending offer thread id of the type.
func VCThidKey(t pltype.CredType) string {
	return prefixVCThid + t.String()
}

// ProofThidKey returns the key of the pending proof request thread id of the
// type.
func ProofThidKey(t pltype.CredType) string {
	return prefixProofThid + t.String()
}

// AllKeys returns every key the wallet may have written. Teardown uses it.
func AllKeys() []string {
	keys := []string{
		KeyWalletSeed,
		KeyConnectionID,
		KeyIssuerDID,
		KeyDispatchCursor,
	}
	for _, t := range pltype.CredTypes() {
		keys = append(keys, SchemaIDKey(t), VCThidKey(t), ProofThidKey(t))
	}
	return keys
}

func (k *Keychain) getString(key string) (s string, found bool, err error) {
	defer err2.Handle(&err, "keychain get %s", key)

	v, found := try.To2(k.Get(key))
	if !found || len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (k *Keychain) mustString(key string) (s string, err error) {
	s, found, err := k.getString(key)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return s, nil
}

func (k *Keychain) setString(key, value string) (err error) {
	defer err2.Handle(&err, "keychain set %s", key)

	return k.Set(key, []byte(value))
}

// Seed returns the wallet seed if it exists.
func (k *Keychain) Seed() (seed []byte, found bool, err error) {
	defer err2.Handle(&err, "keychain get seed")

	seed, found = try.To2(k.Get(KeyWalletSeed))
	if found && len(seed) != SeedLength {
		return nil, false, fmt.Errorf("stored seed length %d", len(seed))
	}
	return seed, found, nil
}

// SetSeed persists the wallet seed.
func (k *Keychain) SetSeed(seed []byte) error {
	if len(seed) != SeedLength {
		return fmt.Errorf("seed length %d, want %d", len(seed), SeedLength)
	}
	return k.Set(KeyWalletSeed, seed)
}

// ConnectionID returns the persisted connection id to the cloud agent.
func (k *Keychain) ConnectionID() (string, bool, error) {
	return k.getString(KeyConnectionID)
}

// MustConnectionID is ConnectionID but missing value is ErrNotFound.
func (k *Keychain) MustConnectionID() (string, error) {
	return k.mustString(KeyConnectionID)
}

// SetConnectionID persists the connection id.
func (k *Keychain) SetConnectionID(id string) error {
	return k.setString(KeyConnectionID, id)
}

// IssuerDID returns the long form of the issuer DID.
func (k *Keychain) IssuerDID() (string, bool, error) {
	return k.getString(KeyIssuerDID)
}

// MustIssuerDID is IssuerDID but missing value is ErrNotFound.
func (k *Keychain) MustIssuerDID() (string, error) {
	return k.mustString(KeyIssuerDID)
}

// SetIssuerDID persists the long form of the issuer DID.
func (k *Keychain) SetIssuerDID(did string) error {
	return k.setString(KeyIssuerDID, did)
}

// SchemaID returns the schema GUID of the credential type.
func (k *Keychain) SchemaID(t pltype.CredType) (string, bool, error) {
	return k.getString(SchemaIDKey(t))
}

// MustSchemaID is SchemaID but missing value is ErrNotFound.
func (k *Keychain) MustSchemaID(t pltype.CredType) (string, error) {
	return k.mustString(SchemaIDKey(t))
}

// SetSchemaID persists the schema GUID of the credential type.
func (k *Keychain) SetSchemaID(t pltype.CredType, guid string) error {
	return k.setString(SchemaIDKey(t), guid)
}

// VCThid returns the thread id of the pending credential offer of the type.
func (k *Keychain) VCThid(t pltype.CredType) (string, bool, error) {
	return k.getString(VCThidKey(t))
}

// SetVCThid persists the pending offer thread id. The previous one is
// overwritten, there is only one pending offer per type.
func (k *Keychain) SetVCThid(t pltype.CredType, thid string) error {
	return k.setString(VCThidKey(t), thid)
}

// ProofThid returns the thread id of the pending proof request of the type.
func (k *Keychain) ProofThid(t pltype.CredType) (string, bool, error) {
	return k.getString(ProofThidKey(t))
}

// SetProofThid persists the pending proof request thread id.
func (k *Keychain) SetProofThid(t pltype.CredType, thid string) error {
	return k.setString(ProofThidKey(t), thid)
}

// DispatchCursor returns the creation time of the newest handled message.
func (k *Keychain) DispatchCursor() (cursor time.Time, found bool, err error) {
	defer err2.Handle(&err, "keychain get cursor")

	s, found := try.To2(k.getString(KeyDispatchCursor))
	if !found {
		return time.Time{}, false, nil
	}
	cursor = try.To1(time.Parse(time.RFC3339Nano, s))
	return cursor, true, nil
}

// SetDispatchCursor persists the dispatch cursor.
func (k *Keychain) SetDispatchCursor(cursor time.Time) error {
	return k.setString(KeyDispatchCursor, cursor.UTC().Format(time.RFC3339Nano))
}

// Clear removes every key the wallet has written. It tries every key even
// when some of them fail and returns all the errors joined.
func (k *Keychain) Clear() error {
	var errs []error
	for _, key := range AllKeys() {
		if err := k.Delete(key); err != nil {
			glog.Warningf("keychain delete %s: %v", key, err)
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
