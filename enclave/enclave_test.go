package enclave

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dbFilename = "enclave.bolt"

// key must be set from production environment, SHA-256, 32 bytes
const hexKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

var testEnclave *Enclave

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	_ = os.RemoveAll(dbFilename)
	var err error
	testEnclave, err = New(Config{Filename: dbFilename, Key: hexKey})
	if err != nil {
		panic(err)
	}
}

func tearDown() {
	_ = testEnclave.Wipe()
	_ = os.RemoveAll(dbFilename + "_backup")
}

func TestSetGet(t *testing.T) {
	err := testEnclave.Set("WalletSeed", []byte("seed bytes"))
	require.NoError(t, err)

	v, found, err := testEnclave.Get("WalletSeed")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("seed bytes"), v)

	err = testEnclave.Set("WalletSeed", []byte("other"))
	require.NoError(t, err)
	v, _, _ = testEnclave.Get("WalletSeed")
	assert.Equal(t, []byte("other"), v)
}

func TestGetNotExists(t *testing.T) {
	v, found, err := testEnclave.Get("NotCreated")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestDelete(t *testing.T) {
	require.NoError(t, testEnclave.Set("IssuerDID", []byte("did:prism:123")))
	require.NoError(t, testEnclave.Delete("IssuerDID"))

	_, found, err := testEnclave.Get("IssuerDID")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, testEnclave.Delete("IssuerDID"), "delete is idempotent")
}

func TestEncrypted(t *testing.T) {
	require.NoError(t, testEnclave.Set("ConnectionId", []byte("plain-text-value")))

	raw, err := testEnclave.getKeyValueFromBucket(secretBucket,
		testEnclave.hash([]byte("ConnectionId")))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("plain-text-value"), raw)
}

func TestBackup(t *testing.T) {
	require.NoError(t, testEnclave.Set("SchemaId.Passport", []byte("guid")))
	testEnclave.Backup()

	backup, err := New(Config{
		Filename:   dbFilename + "_backup",
		BackupName: dbFilename + "_backup2",
		Key:        hexKey,
	})
	require.NoError(t, err)
	defer func() {
		_ = backup.Close()
	}()

	v, found, err := backup.Get("SchemaId.Passport")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("guid"), v)
}

func TestClosed(t *testing.T) {
	const name = "closed.bolt"
	e, err := New(Config{Filename: name})
	require.NoError(t, err)
	require.NoError(t, e.Wipe())

	_, _, err = e.Get("x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, e.Set("x", nil), ErrClosed)
}

func TestInvalidKey(t *testing.T) {
	_, err := New(Config{Filename: "invalid.bolt", Key: "abcd"})
	assert.Error(t, err)
	_ = os.RemoveAll("invalid.bolt")
}
