/*
Package enclave is the wallet's Secure Enclave. It offers a sealed key/value
storage for the secrets of the holder: the wallet seed, connection and issuer
identifiers, schema ids and pending protocol thread ids.

The sealed box is a bolt database file. When an encryption key is given, the
keys are hashed and the values are encrypted with the findy-common-go cipher
before they touch the disk.
*/
package enclave

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"sync"

	"github.com/findy-network/findy-common-go/crypto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

// Config is the configuration of the sealed box.
type Config struct {
	Filename   string
	BackupName string

	// Key is a hex encoded 32 byte key. Empty means the values are stored
	// as is, which is only meant for development.
	Key string
}

// Enclave is the sealed box. It's safe for concurrent use.
type Enclave struct {
	l sync.RWMutex

	filename   string
	backupName string
	db         *bolt.DB
	cipher     *crypto.Cipher
}

// New opens or creates the sealed box.
func New(cfg Config) (e *Enclave, err error) {
	defer err2.Handle(&err, "enclave init")

	glog.V(1).Infoln("init enclave", cfg.Filename)

	e = &Enclave{
		filename:   cfg.Filename,
		backupName: cfg.BackupName,
	}
	if e.backupName == "" {
		e.backupName = cfg.Filename + "_backup"
	}
	if cfg.Key != "" {
		k := try.To1(hex.DecodeString(cfg.Key))
		if len(k) != 32 {
			return nil, errors.New("enclave key must be 32 bytes")
		}
		e.cipher = crypto.NewCipher(k)
	} else {
		glog.Warningln("enclave key not set, values are stored unencrypted")
	}
	try.To(e.open())
	return e, nil
}

// Get returns the value of the key. Found is false when the key doesn't
// exist, which isn't an error.
func (e *Enclave) Get(key string) (value []byte, found bool, err error) {
	e.l.RLock()
	defer e.l.RUnlock()

	if e.db == nil {
		return nil, false, ErrClosed
	}
	value, err = e.getKeyValueFromBucket(secretBucket, e.hash([]byte(key)))
	if errors.Is(err, ErrNotExists) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	value, err = e.decrypt(value)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores the value by the key. Old value is overwritten.
func (e *Enclave) Set(key string, value []byte) (err error) {
	e.l.RLock()
	defer e.l.RUnlock()

	if e.db == nil {
		return ErrClosed
	}
	defer err2.Handle(&err, "enclave set %s", key)

	v := try.To1(e.encrypt(value))
	return e.addKeyValueToBucket(secretBucket, v, e.hash([]byte(key)))
}

// Delete removes the key. Removing a missing key isn't an error.
func (e *Enclave) Delete(key string) (err error) {
	e.l.RLock()
	defer e.l.RUnlock()

	if e.db == nil {
		return ErrClosed
	}
	return e.rmKeyValueFromBucket(secretBucket, e.hash([]byte(key)))
}

// Backup copies the sealed box to the backup file. It can be called while the
// enclave is in use.
func (e *Enclave) Backup() {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Errorln("enclave backup error:", err)
	}))

	e.l.RLock()
	defer e.l.RUnlock()

	if e.db == nil {
		glog.Warningln("enclave closed, skipping backup")
		return
	}
	try.To(e.backup(e.backupName))
	glog.V(1).Infoln("enclave backup ready:", e.backupName)
}

// Close closes the sealed box of the enclave. It can be opened again with New.
func (e *Enclave) Close() (err error) {
	e.l.Lock()
	defer e.l.Unlock()

	if e.db == nil {
		return nil
	}
	defer err2.Handle(&err, "enclave close")

	try.To(e.db.Close())
	e.db = nil
	return nil
}

// Wipe closes and destroys the enclave permanently. This version only
// removes the sealed box file.
func (e *Enclave) Wipe() (err error) {
	defer err2.Handle(&err, "enclave wipe")

	try.To(e.Close())
	return os.RemoveAll(e.filename)
}

func (e *Enclave) hash(key []byte) []byte {
	if e.cipher != nil {
		h := md5.Sum(key)
		return h[:]
	}
	return append(key[:0:0], key...)
}

func (e *Enclave) encrypt(value []byte) (v []byte, err error) {
	if e.cipher == nil {
		return append(value[:0:0], value...), nil
	}
	defer err2.Handle(&err, "encrypt")
	return e.cipher.TryEncrypt(value), nil
}

func (e *Enclave) decrypt(value []byte) (v []byte, err error) {
	if e.cipher == nil {
		return value, nil
	}
	defer err2.Handle(&err, "decrypt")
	return e.cipher.TryDecrypt(value), nil
}
