package keystore

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/vitalvas/reqsign/httpsig"
)

// ErrMalformedKeys is returned when a key list string or key file cannot
// be parsed.
var ErrMalformedKeys = errors.New("keystore: malformed keys")

// Static is an in-memory key store. It is safe for concurrent use.
type Static struct {
	keys map[string][]byte
}

var _ httpsig.KeyStore = (*Static)(nil)

// NewStatic creates a Static store from a keyId to key map. The map is
// copied.
func NewStatic(keys map[string]string) *Static {
	s := &Static{keys: make(map[string][]byte, len(keys))}
	for id, key := range keys {
		s.keys[id] = []byte(key)
	}

	return s
}

// FromString creates a Static store from a list of the form
// "keyId:secret,keyId2:secret2". Entries are trimmed; an entry without a
// ':' separator, an empty keyId or an empty secret fails with
// ErrMalformedKeys.
//
// It is meant for HMAC secrets passed through environment variables, not
// for PEM keys.
func FromString(s string) (*Static, error) {
	keys := make(map[string]string)

	if strings.TrimSpace(s) == "" {
		return NewStatic(keys), nil
	}

	for entry := range strings.SplitSeq(s, ",") {
		id, key, ok := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		key = strings.TrimSpace(key)

		if !ok || id == "" || key == "" {
			return nil, ErrMalformedKeys
		}

		keys[id] = key
	}

	return NewStatic(keys), nil
}

// Fetch returns a copy of the key stored under keyID.
func (s *Static) Fetch(_ context.Context, keyID string) ([]byte, error) {
	key, ok := s.keys[keyID]
	if !ok {
		return nil, httpsig.NewKeyNotFoundError(keyID)
	}

	return slices.Clone(key), nil
}

// Exists reports whether keyID is known.
func (s *Static) Exists(_ context.Context, keyID string) (bool, error) {
	_, ok := s.keys[keyID]

	return ok, nil
}

// KeyIDs returns the known key ids in sorted order.
func (s *Static) KeyIDs() []string {
	return slices.Sorted(maps.Keys(s.keys))
}
