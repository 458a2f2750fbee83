package vision

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// AccessKeys is a static AWS access key pair.
type AccessKeys struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Valid reports whether both halves are present.
func (k AccessKeys) Valid() bool {
	return k.AccessKeyID != "" && k.SecretAccessKey != ""
}

// LoadAccessKeysCSV reads the access key file downloaded from the AWS
// console (header "Access key ID,Secret access key").
func LoadAccessKeysCSV(path string) (AccessKeys, error) {
	f, err := os.Open(path)
	if err != nil {
		return AccessKeys{}, fmt.Errorf("open access keys: %w", err)
	}
	defer f.Close()

	return ParseAccessKeysCSV(f)
}

// ParseAccessKeysCSV parses the console CSV format. Only the first data row is used.
func ParseAccessKeysCSV(r io.Reader) (AccessKeys, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return AccessKeys{}, fmt.Errorf("parse access keys: %w", err)
	}

	if len(rows) < 2 {
		return AccessKeys{}, errors.New("parse access keys: no data row")
	}

	idCol, secretCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "access key id":
			idCol = i
		case "secret access key":
			secretCol = i
		}
	}

	if idCol < 0 || secretCol < 0 {
		return AccessKeys{}, errors.New(`parse access keys: missing "Access key ID" or "Secret access key" column`)
	}

	row := rows[1]
	if len(row) <= idCol || len(row) <= secretCol {
		return AccessKeys{}, errors.New("parse access keys: short data row")
	}

	keys := AccessKeys{
		AccessKeyID:     strings.TrimSpace(row[idCol]),
		SecretAccessKey: strings.TrimSpace(row[secretCol]),
	}

	if !keys.Valid() {
		return AccessKeys{}, errors.New("parse access keys: empty key")
	}

	return keys, nil
}
