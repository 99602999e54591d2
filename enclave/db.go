package enclave

import (
	"errors"
	"fmt"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

const secretBucket = "secret_bucket"

// ErrNotExists is an error for key not exist in the enclave.
var ErrNotExists = errors.New("key not exists")

// ErrSealBoxAlreadyExists is an error for enclave sealed box already exists.
var ErrSealBoxAlreadyExists = errors.New("enclave sealed box exists")

// ErrClosed is returned when the sealed box is used after Close.
var ErrClosed = errors.New("enclave sealed box closed")

func (e *Enclave) open() (err error) {
	if e.db != nil {
		return ErrSealBoxAlreadyExists
	}
	defer err2.Handle(&err, "open sealed box")

	e.db = try.To1(bolt.Open(e.filename, 0600, nil))

	try.To(e.db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err, "create buckets")

		try.To1(tx.CreateBucketIfNotExists([]byte(secretBucket)))
		return nil
	}))
	return nil
}

func (e *Enclave) addKeyValueToBucket(bucket string, value, index []byte) (err error) {
	defer err2.Handle(&err, "add key")

	return e.db.Update(func(tx *bolt.Tx) (err error) {
		b := tx.Bucket([]byte(bucket))
		return b.Put(index, value)
	})
}

func (e *Enclave) getKeyValueFromBucket(bucket string, index []byte) (value []byte, err error) {
	defer err2.Handle(&err, func(err error) error {
		if errors.Is(err, ErrNotExists) {
			return err
		}
		return fmt.Errorf("get key: %w", err)
	})

	try.To(e.db.View(func(tx *bolt.Tx) (err error) {
		b := tx.Bucket([]byte(bucket))
		d := b.Get(index)
		if d == nil {
			return ErrNotExists
		}
		// bolt's slice is only valid inside the transaction
		value = append(d[:0:0], d...)
		return nil
	}))
	return value, nil
}

func (e *Enclave) rmKeyValueFromBucket(bucket string, index []byte) (err error) {
	defer err2.Handle(&err, "remove key")

	return e.db.Update(func(tx *bolt.Tx) (err error) {
		b := tx.Bucket([]byte(bucket))
		return b.Delete(index)
	})
}

func (e *Enclave) backup(name string) (err error) {
	defer err2.Handle(&err, "backup")

	return e.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(name, 0600)
	})
}
