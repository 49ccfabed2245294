package hashutil

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
)

// JsonHash returns the sha1 hash of the JSON representation of v.
// It is used to detect effective changes of configuration snapshots
// regardless of formatting or comments in the source file.
func JsonHash(v any) ([]byte, error) {
	j, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	h := sha1.Sum(j)
	return h[:], nil
}

// Changed reports whether two hashes differ.
// A nil previous hash counts as changed.
func Changed(prev, next []byte) bool {
	return prev == nil || !bytes.Equal(prev, next)
}
