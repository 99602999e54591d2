package keychain

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/lainio/err2/assert"
)

func TestSeed(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	k := New(NewMemStore())
	_, found, err := k.Seed()
	assert.NoError(err)
	assert.That(!found)

	assert.Error(k.SetSeed([]byte("short")))

	seed := bytes.Repeat([]byte{7}, SeedLength)
	assert.NoError(k.SetSeed(seed))
	got, found, err := k.Seed()
	assert.NoError(err)
	assert.That(found)
	assert.DeepEqual(got, seed)
}

func TestMustGetters(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	k := New(NewMemStore())
	_, err := k.MustConnectionID()
	assert.That(errors.Is(err, ErrNotFound))
	_, err = k.MustSchemaID(pltype.Ticket)
	assert.That(errors.Is(err, ErrNotFound))

	assert.NoError(k.SetConnectionID("conn-1"))
	id, err := k.MustConnectionID()
	assert.NoError(err)
	assert.Equal(id, "conn-1")
}

func TestThidsPerType(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	k := New(NewMemStore())
	assert.NoError(k.SetVCThid(pltype.Passport, "thid-A"))
	assert.NoError(k.SetVCThid(pltype.Ticket, "thid-T"))
	assert.NoError(k.SetVCThid(pltype.Passport, "thid-B"))

	thid, found, err := k.VCThid(pltype.Passport)
	assert.NoError(err)
	assert.That(found)
	assert.Equal(thid, "thid-B")

	thid, _, _ = k.VCThid(pltype.Ticket)
	assert.Equal(thid, "thid-T")
}

func TestDispatchCursor(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	k := New(NewMemStore())
	_, found, err := k.DispatchCursor()
	assert.NoError(err)
	assert.That(!found)

	now := time.Date(2025, 7, 13, 10, 0, 0, 123456789, time.UTC)
	assert.NoError(k.SetDispatchCursor(now))
	c, found, err := k.DispatchCursor()
	assert.NoError(err)
	assert.That(found)
	assert.That(c.Equal(now))
}

func TestClear(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	store := NewMemStore()
	k := New(store)
	assert.NoError(k.SetConnectionID("conn"))
	assert.NoError(k.SetIssuerDID("did:prism:abc:def"))
	assert.NoError(k.SetSchemaID(pltype.Passport, "guid"))
	assert.NoError(k.SetProofThid(pltype.Ticket, "p-thid"))

	failErr := errors.New("locked")
	store.FailDelete = func(key string) error {
		if key == KeyIssuerDID {
			return failErr
		}
		return nil
	}
	err := k.Clear()
	assert.Error(err)
	assert.That(errors.Is(err, failErr))
	assert.Equal(store.Len(), 1, "only the failing key is left")

	store.FailDelete = nil
	assert.NoError(k.Clear())
	assert.Equal(store.Len(), 0)
}
