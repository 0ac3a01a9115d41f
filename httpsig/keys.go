package httpsig

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // dsa-sha1 is part of the protocol
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"math/big"

	"golang.org/x/crypto/ssh"
)

// digest hashes message with h.
func digest(h crypto.Hash, message []byte) []byte {
	d := h.New()
	d.Write(message)

	return d.Sum(nil)
}

// parsePrivateKey decodes a PEM encoded private key: PKCS#1, PKCS#8,
// OpenSSL DSA or OpenSSH.
func parsePrivateKey(key []byte) (any, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	return ssh.ParseRawPrivateKey(key)
}

// parsePublicKey decodes a public key from a PEM "PUBLIC KEY" or
// "RSA PUBLIC KEY" block, from a PEM private key, or from an OpenSSH
// authorized_keys line.
func parsePublicKey(key []byte) (crypto.PublicKey, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	if block, _ := pem.Decode(key); block != nil {
		switch block.Type {
		case "PUBLIC KEY":
			return x509.ParsePKIXPublicKey(block.Bytes)
		case "RSA PUBLIC KEY":
			return x509.ParsePKCS1PublicKey(block.Bytes)
		}

		priv, err := ssh.ParseRawPrivateKey(key)
		if err != nil {
			return nil, err
		}

		switch k := priv.(type) {
		case *rsa.PrivateKey:
			return &k.PublicKey, nil
		case *dsa.PrivateKey:
			return &k.PublicKey, nil
		case crypto.Signer:
			return k.Public(), nil
		default:
			return nil, errors.New("unsupported private key type")
		}
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey(key)
	if err != nil {
		return nil, err
	}

	cpk, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, errors.New("unsupported ssh public key type")
	}

	return cpk.CryptoPublicKey(), nil
}

// --- RSA ---

func signRSA(h crypto.Hash, key, message []byte) ([]byte, error) {
	priv, err := parsePrivateKey(key)
	if err != nil {
		return nil, wrapError(KindInvalidKey, "rsa private key", err)
	}

	k, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return nil, newError(KindInvalidKey, "not an rsa private key")
	}

	sig, err := rsa.SignPKCS1v15(rand.Reader, k, h, digest(h, message))
	if err != nil {
		return nil, wrapError(KindInvalidKey, "rsa private key", err)
	}

	return sig, nil
}

func verifyRSA(h crypto.Hash, key, signature, message []byte) (bool, error) {
	pub, err := parsePublicKey(key)
	if err != nil {
		return false, wrapError(KindInvalidKey, "rsa public key", err)
	}

	k, ok := pub.(*rsa.PublicKey)
	if !ok {
		return false, newError(KindInvalidKey, "not an rsa public key")
	}

	return rsa.VerifyPKCS1v15(k, h, digest(h, message), signature) == nil, nil
}

// --- DSA ---

// dsaSignature is the ASN.1 form of a DSA signature.
type dsaSignature struct {
	R, S *big.Int
}

// dsaDigest truncates the digest to the byte length of the subgroup order.
func dsaDigest(h crypto.Hash, q *big.Int, message []byte) []byte {
	d := digest(h, message)
	if n := q.BitLen() / 8; len(d) > n {
		d = d[:n]
	}

	return d
}

func signDSA(h crypto.Hash, key, message []byte) ([]byte, error) {
	priv, err := parsePrivateKey(key)
	if err != nil {
		return nil, wrapError(KindInvalidKey, "dsa private key", err)
	}

	k, ok := priv.(*dsa.PrivateKey)
	if !ok {
		return nil, newError(KindInvalidKey, "not a dsa private key")
	}

	r, s, err := dsa.Sign(rand.Reader, k, dsaDigest(h, k.Q, message))
	if err != nil {
		return nil, wrapError(KindInvalidKey, "dsa private key", err)
	}

	return asn1.Marshal(dsaSignature{R: r, S: s})
}

func verifyDSA(h crypto.Hash, key, signature, message []byte) (bool, error) {
	pub, err := parsePublicKey(key)
	if err != nil {
		return false, wrapError(KindInvalidKey, "dsa public key", err)
	}

	k, ok := pub.(*dsa.PublicKey)
	if !ok {
		return false, newError(KindInvalidKey, "not a dsa public key")
	}

	var sig dsaSignature

	rest, err := asn1.Unmarshal(signature, &sig)
	if err != nil || len(rest) > 0 || sig.R == nil || sig.S == nil {
		return false, nil
	}

	return dsa.Verify(k, dsaDigest(h, k.Q, message), sig.R, sig.S), nil
}

// --- HMAC ---

func signHMAC(h crypto.Hash, key, message []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, newError(KindInvalidKey, "hmac secret cannot be empty")
	}

	mac := hmac.New(h.New, key)
	mac.Write(message)

	return mac.Sum(nil), nil
}

func verifyHMAC(h crypto.Hash, key, signature, message []byte) (bool, error) {
	expected, err := signHMAC(h, key, message)
	if err != nil {
		return false, err
	}

	return hmac.Equal(expected, signature), nil
}
