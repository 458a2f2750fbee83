package vision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessKeysCSV(t *testing.T) {
	in := "\ufeffAccess key ID,Secret access key\nAKIAEXAMPLE,secret/value\n"

	keys, err := ParseAccessKeysCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, AccessKeys{AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "secret/value"}, keys)
}

func TestParseAccessKeysCSV_ColumnOrder(t *testing.T) {
	in := "User name,Secret access key,Access key ID\nbob,s3cr3t,AKIA1\n"

	keys, err := ParseAccessKeysCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "AKIA1", keys.AccessKeyID)
	assert.Equal(t, "s3cr3t", keys.SecretAccessKey)
}

func TestParseAccessKeysCSV_Errors(t *testing.T) {
	_, err := ParseAccessKeysCSV(strings.NewReader("Access key ID,Secret access key\n"))
	assert.Error(t, err)

	_, err = ParseAccessKeysCSV(strings.NewReader("id,secret\na,b\n"))
	assert.Error(t, err)

	_, err = ParseAccessKeysCSV(strings.NewReader("Access key ID,Secret access key\n,b\n"))
	assert.Error(t, err)
}

func TestLoadAccessKeysCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.csv")
	require.NoError(t, os.WriteFile(path, []byte("Access key ID,Secret access key\nAKIA2,xyz\n"), 0o600))

	keys, err := LoadAccessKeysCSV(path)
	require.NoError(t, err)
	assert.True(t, keys.Valid())

	_, err = LoadAccessKeysCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
