package keystore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout read by ParseYAML and LoadFile:
//
//	keys:
//	  app_1.v1: |
//	    -----BEGIN PUBLIC KEY-----
//	    ...
//	    -----END PUBLIC KEY-----
//	  hmac: secret
type File struct {
	Keys map[string]string `yaml:"keys"`
}

// ParseYAML creates a Static store from YAML data. Empty keyIds and empty
// key values are rejected with ErrMalformedKeys.
func ParseYAML(data []byte) (*Static, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKeys, err)
	}

	for id, key := range f.Keys {
		if id == "" || key == "" {
			return nil, fmt.Errorf("%w: empty key %q", ErrMalformedKeys, id)
		}
	}

	return NewStatic(f.Keys), nil
}

// LoadFile reads a YAML key file from path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseYAML(data)
}

// Marshal encodes keys in the layout ParseYAML reads.
func Marshal(keys map[string]string) ([]byte, error) {
	return yaml.Marshal(File{Keys: keys})
}
