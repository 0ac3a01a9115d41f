package httpsig

import "errors"

// Kind classifies signing and verification failures so callers at the
// boundary can decide how to respond to each of them.
type Kind string

const (
	// KindKeyNotFound means the key store has no entry for the keyId.
	KindKeyNotFound Kind = "KeyNotFound"

	// KindSignatureMismatch means the signature was checked and does not
	// match the request.
	KindSignatureMismatch Kind = "SignatureMismatch"

	// KindBadSignatureParameters means the signature parameter string is
	// malformed, lacks a required field, or carries malformed base64.
	KindBadSignatureParameters Kind = "BadSignatureParameters"

	// KindUnsupportedAlgorithm means the algorithm name is not registered.
	KindUnsupportedAlgorithm Kind = "UnsupportedAlgorithm"

	// KindUnsupportedAdapter means the adapter name is not registered.
	KindUnsupportedAdapter Kind = "UnsupportedAdapter"

	// KindInvalidKey means the key material cannot be used by the
	// selected algorithm.
	KindInvalidKey Kind = "InvalidKey"

	// KindHeaderNotInRequest means a header named in the signed header
	// list is absent from the request.
	KindHeaderNotInRequest Kind = "HeaderNotInRequest"

	// KindMissingSignatureHeader means neither the Signature nor the
	// Authorization header is present.
	KindMissingSignatureHeader Kind = "MissingSignatureHeader"

	// KindUnsupportedAuthorizationScheme means the Authorization header
	// scheme is not "Signature".
	KindUnsupportedAuthorizationScheme Kind = "UnsupportedAuthorizationScheme"
)

var kindText = map[Kind]string{
	KindKeyNotFound:                    "key not found",
	KindSignatureMismatch:              "signature mismatch",
	KindBadSignatureParameters:         "bad signature parameters",
	KindUnsupportedAlgorithm:           "unsupported algorithm",
	KindUnsupportedAdapter:             "unsupported adapter",
	KindInvalidKey:                     "invalid key",
	KindHeaderNotInRequest:             "header not in request",
	KindMissingSignatureHeader:         "missing signature header",
	KindUnsupportedAuthorizationScheme: "unsupported authorization scheme",
}

// Error is a signing or verification failure of a specific Kind.
//
// Use errors.Is with one of the Err* sentinels below, or KindOf, to match
// on the kind regardless of the detail carried by the error.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := "httpsig: " + kindText[e.Kind]
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Sentinels for errors.Is matching, one per Kind.
var (
	ErrKeyNotFound                    = &Error{Kind: KindKeyNotFound}
	ErrSignatureMismatch              = &Error{Kind: KindSignatureMismatch}
	ErrBadSignatureParameters         = &Error{Kind: KindBadSignatureParameters}
	ErrUnsupportedAlgorithm           = &Error{Kind: KindUnsupportedAlgorithm}
	ErrUnsupportedAdapter             = &Error{Kind: KindUnsupportedAdapter}
	ErrInvalidKey                     = &Error{Kind: KindInvalidKey}
	ErrHeaderNotInRequest             = &Error{Kind: KindHeaderNotInRequest}
	ErrMissingSignatureHeader         = &Error{Kind: KindMissingSignatureHeader}
	ErrUnsupportedAuthorizationScheme = &Error{Kind: KindUnsupportedAuthorizationScheme}
)

// NewKeyNotFoundError returns a KeyNotFound error for keyID. Key store
// implementations return it from Fetch when the key is absent.
func NewKeyNotFoundError(keyID string) error {
	return newError(KindKeyNotFound, keyID)
}

// Configuration errors.
var (
	// ErrNoKeyStore is returned when Config has no KeyStore configured.
	ErrNoKeyStore = errors.New("httpsig: key store must not be nil")

	// ErrNoVerifier is returned when MiddlewareConfig has no Verifier.
	ErrNoVerifier = errors.New("httpsig: verifier must not be nil")

	// ErrNoSigner is returned when TransportConfig has no Signer.
	ErrNoSigner = errors.New("httpsig: signer must not be nil")

	// ErrInvalidMethod is returned when a request carries an HTTP method
	// outside the supported set.
	ErrInvalidMethod = errors.New("httpsig: invalid HTTP method")
)

// Digest errors.
var (
	// ErrDigestMismatch is returned when Digest verification fails.
	ErrDigestMismatch = errors.New("httpsig: digest mismatch")

	// ErrDigestNotFound is returned when the Digest header is required
	// but not present.
	ErrDigestNotFound = errors.New("httpsig: digest not found")

	// ErrUnsupportedDigest is returned when the digest algorithm is not
	// supported.
	ErrUnsupportedDigest = errors.New("httpsig: unsupported digest algorithm")
)
