package httpsig

import (
	"context"
	"encoding/base64"
	"strings"
)

// AuthorizationScheme is the Authorization header scheme that carries
// signature parameters.
const AuthorizationScheme = "Signature"

// Verifier checks request signatures. It is safe for concurrent use.
type Verifier struct {
	core
}

// NewVerifier creates a Verifier. It returns an UnsupportedAdapter error
// when cfg.Adapter is not registered and ErrNoKeyStore when cfg.KeyStore
// is nil.
func NewVerifier(cfg Config) (*Verifier, error) {
	c, err := newCore(cfg)
	if err != nil {
		return nil, err
	}

	return &Verifier{core: c}, nil
}

// Verify checks the signature carried by req. A nil error means the
// signature is valid.
//
// The parameters are read from the Signature header or, when it is
// absent, from an Authorization header with the Signature scheme.
//
// Errors: MissingSignatureHeader, UnsupportedAuthorizationScheme,
// BadSignatureParameters, KeyNotFound, UnsupportedAlgorithm,
// HeaderNotInRequest, InvalidKey and SignatureMismatch, plus whatever the
// adapter or the key store return.
func (v *Verifier) Verify(ctx context.Context, req any) error {
	_, err := v.VerifyParameters(ctx, req)

	return err
}

// VerifyParameters is like Verify but also returns the verified
// parameters.
func (v *Verifier) VerifyParameters(ctx context.Context, req any) (Parameters, error) {
	r, err := v.adapt(req)
	if err != nil {
		return Parameters{}, err
	}

	raw, err := signatureParameters(r)
	if err != nil {
		return Parameters{}, err
	}

	params, err := ParseParameters(raw)
	if err != nil {
		return Parameters{}, err
	}

	key, err := v.keys.Fetch(ctx, params.KeyID)
	if err != nil {
		return Parameters{}, err
	}

	alg, err := v.algorithms.Lookup(params.Algorithm)
	if err != nil {
		return Parameters{}, err
	}

	str, err := SigningString(params.Headers, r)
	if err != nil {
		return Parameters{}, err
	}

	sig, err := base64.StdEncoding.Strict().DecodeString(params.Signature)
	if err != nil {
		return Parameters{}, wrapError(KindBadSignatureParameters, "malformed signature", err)
	}

	ok, err := alg.VerifySignature(key, sig, []byte(str))
	if err != nil {
		return Parameters{}, err
	}

	if !ok {
		return Parameters{}, newError(KindSignatureMismatch, "")
	}

	return params, nil
}

// signatureParameters locates the raw signature parameter string in r.
func signatureParameters(r *Request) (string, error) {
	if values := r.Header("signature"); len(values) > 0 {
		return values[0], nil
	}

	if values := r.Header("authorization"); len(values) > 0 {
		scheme, rest, _ := strings.Cut(values[0], " ")
		if scheme != AuthorizationScheme {
			return "", newError(KindUnsupportedAuthorizationScheme, "Authorization header scheme must be 'Signature'")
		}

		return strings.TrimSpace(rest), nil
	}

	return "", newError(KindMissingSignatureHeader, "request must contain either Authorization or Signature header")
}
