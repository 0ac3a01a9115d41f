package httpsig

import (
	"crypto"
	_ "crypto/sha1"   // registers crypto.SHA1
	_ "crypto/sha256" // registers crypto.SHA256
	_ "crypto/sha512" // registers crypto.SHA512
	"fmt"
)

// Built-in algorithm names.
const (
	RSASHA1    = "rsa-sha1"
	RSASHA256  = "rsa-sha256"
	RSASHA512  = "rsa-sha512"
	DSASHA1    = "dsa-sha1"
	HMACSHA1   = "hmac-sha1"
	HMACSHA256 = "hmac-sha256"
	HMACSHA512 = "hmac-sha512"
)

// Family is the signature scheme behind an Algorithm.
type Family int

const (
	// FamilyRSA is RSASSA-PKCS1-v1_5. Keys are PEM or OpenSSH encoded.
	FamilyRSA Family = iota + 1

	// FamilyDSA is DSA with ASN.1 DER encoded (r, s) signatures.
	FamilyDSA

	// FamilyHMAC is HMAC keyed with a shared secret.
	FamilyHMAC
)

func (f Family) String() string {
	switch f {
	case FamilyRSA:
		return "rsa"
	case FamilyDSA:
		return "dsa"
	case FamilyHMAC:
		return "hmac"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Algorithm is a named signature scheme paired with a digest. It holds no
// key material and is safe for concurrent use.
type Algorithm struct {
	name   string
	family Family
	hash   crypto.Hash
}

// NewAlgorithm returns an Algorithm of the given family using hash.
func NewAlgorithm(name string, family Family, hash crypto.Hash) Algorithm {
	return Algorithm{name: name, family: family, hash: hash}
}

// Name returns the algorithm identifier used on the wire.
func (a Algorithm) Name() string { return a.name }

// Family returns the signature scheme.
func (a Algorithm) Family() Family { return a.family }

// Hash returns the digest function.
func (a Algorithm) Hash() crypto.Hash { return a.hash }

// CreateSignature signs message with key. For RSA and DSA key is a PEM
// encoded private key; for HMAC it is the shared secret. Unusable key
// material fails with an InvalidKey error.
func (a Algorithm) CreateSignature(key, message []byte) ([]byte, error) {
	if !a.hash.Available() {
		return nil, newError(KindUnsupportedAlgorithm, a.name)
	}

	switch a.family {
	case FamilyRSA:
		return signRSA(a.hash, key, message)
	case FamilyDSA:
		return signDSA(a.hash, key, message)
	case FamilyHMAC:
		return signHMAC(a.hash, key, message)
	default:
		return nil, newError(KindUnsupportedAlgorithm, a.name)
	}
}

// VerifySignature reports whether signature is valid for message under
// key. For RSA and DSA key is a public key (a private key is accepted too);
// for HMAC it is the shared secret.
//
// A usable key with a non-matching signature returns false and a nil
// error. Only unusable key material returns an InvalidKey error.
func (a Algorithm) VerifySignature(key, signature, message []byte) (bool, error) {
	if !a.hash.Available() {
		return false, newError(KindUnsupportedAlgorithm, a.name)
	}

	switch a.family {
	case FamilyRSA:
		return verifyRSA(a.hash, key, signature, message)
	case FamilyDSA:
		return verifyDSA(a.hash, key, signature, message)
	case FamilyHMAC:
		return verifyHMAC(a.hash, key, signature, message)
	default:
		return false, newError(KindUnsupportedAlgorithm, a.name)
	}
}

// Algorithms maps algorithm names to algorithms.
type Algorithms map[string]Algorithm

// DefaultAlgorithms returns a new table holding the built-in algorithms.
func DefaultAlgorithms() Algorithms {
	return Algorithms{
		RSASHA1:    NewAlgorithm(RSASHA1, FamilyRSA, crypto.SHA1),
		RSASHA256:  NewAlgorithm(RSASHA256, FamilyRSA, crypto.SHA256),
		RSASHA512:  NewAlgorithm(RSASHA512, FamilyRSA, crypto.SHA512),
		DSASHA1:    NewAlgorithm(DSASHA1, FamilyDSA, crypto.SHA1),
		HMACSHA1:   NewAlgorithm(HMACSHA1, FamilyHMAC, crypto.SHA1),
		HMACSHA256: NewAlgorithm(HMACSHA256, FamilyHMAC, crypto.SHA256),
		HMACSHA512: NewAlgorithm(HMACSHA512, FamilyHMAC, crypto.SHA512),
	}
}

// Lookup returns the algorithm registered under name, or an
// UnsupportedAlgorithm error.
func (t Algorithms) Lookup(name string) (Algorithm, error) {
	a, ok := t[name]
	if !ok {
		return Algorithm{}, newError(KindUnsupportedAlgorithm, name)
	}

	return a, nil
}
