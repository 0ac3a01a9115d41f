package httpsig

import (
	"context"
	"maps"
)

// KeyStore resolves key identifiers to key material.
//
// Implementations must be safe for concurrent reads. Fetch returns an
// error matching ErrKeyNotFound (see NewKeyNotFoundError) when the key is
// absent; Exists reports absence as false without an error.
type KeyStore interface {
	Fetch(ctx context.Context, keyID string) ([]byte, error)
	Exists(ctx context.Context, keyID string) (bool, error)
}

// Config configures a Signer or a Verifier.
type Config struct {
	// Adapter names the adapter that converts requests passed to Sign or
	// Verify, e.g. AdapterNetHTTP. Required.
	Adapter string

	// KeyStore resolves keyIds to signing or verification keys. Required.
	KeyStore KeyStore

	// Adapters is the adapter table Adapter is looked up in. Defaults to
	// DefaultAdapters().
	Adapters Adapters

	// Algorithms is the table algorithm names are looked up in. Defaults
	// to DefaultAlgorithms().
	Algorithms Algorithms
}

// core holds what Signer and Verifier share. It is never mutated after
// construction.
type core struct {
	adapter    Adapter
	keys       KeyStore
	algorithms Algorithms
}

func newCore(cfg Config) (core, error) {
	if cfg.KeyStore == nil {
		return core{}, ErrNoKeyStore
	}

	adapters := cfg.Adapters
	if adapters == nil {
		adapters = DefaultAdapters()
	}

	adapter, err := adapters.Lookup(cfg.Adapter)
	if err != nil {
		return core{}, err
	}

	algorithms := DefaultAlgorithms()
	if cfg.Algorithms != nil {
		algorithms = maps.Clone(cfg.Algorithms)
	}

	return core{adapter: adapter, keys: cfg.KeyStore, algorithms: algorithms}, nil
}

func (c core) adapt(req any) (*Request, error) {
	return c.adapter.Adapt(req)
}
