package httpsig

import (
	"context"
	"encoding/base64"
	"strings"
)

// Signer creates signature parameter strings for requests. It is safe for
// concurrent use.
type Signer struct {
	core
}

// NewSigner creates a Signer. It returns an UnsupportedAdapter error when
// cfg.Adapter is not registered and ErrNoKeyStore when cfg.KeyStore is nil.
func NewSigner(cfg Config) (*Signer, error) {
	c, err := newCore(cfg)
	if err != nil {
		return nil, err
	}

	return &Signer{core: c}, nil
}

// Sign signs req with the key stored under keyID and returns the value
// for the Signature header, e.g.
//
//	keyId="hmac",algorithm="hmac-sha256",headers="date",signature="id0K..."
//
// headers lists the header names to sign, matched case-insensitively and
// possibly including RequestTarget. It defaults to DefaultHeaders.
//
// Errors: KeyNotFound, UnsupportedAlgorithm, HeaderNotInRequest and
// InvalidKey, plus whatever the adapter or the key store return.
func (s *Signer) Sign(ctx context.Context, req any, keyID, algorithm string, headers ...string) (string, error) {
	params, err := s.SignParameters(ctx, req, keyID, algorithm, headers...)
	if err != nil {
		return "", err
	}

	return params.String(), nil
}

// SignParameters is like Sign but returns the parameter record.
func (s *Signer) SignParameters(ctx context.Context, req any, keyID, algorithm string, headers ...string) (Parameters, error) {
	r, err := s.adapt(req)
	if err != nil {
		return Parameters{}, err
	}

	if len(headers) == 0 {
		headers = DefaultHeaders
	}

	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = strings.ToLower(h)
	}

	key, err := s.keys.Fetch(ctx, keyID)
	if err != nil {
		return Parameters{}, err
	}

	alg, err := s.algorithms.Lookup(algorithm)
	if err != nil {
		return Parameters{}, err
	}

	str, err := SigningString(names, r)
	if err != nil {
		return Parameters{}, err
	}

	sig, err := alg.CreateSignature(key, []byte(str))
	if err != nil {
		return Parameters{}, err
	}

	return Parameters{
		KeyID:     keyID,
		Algorithm: algorithm,
		Headers:   names,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}
