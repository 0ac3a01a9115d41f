package httpsig

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DigestAlgorithm identifies the hash algorithm for the Digest header
// per RFC 3230.
type DigestAlgorithm string

const (
	// DigestSHA256 uses SHA-256 for the body digest.
	DigestSHA256 DigestAlgorithm = "SHA-256"

	// DigestSHA512 uses SHA-512 for the body digest.
	DigestSHA512 DigestAlgorithm = "SHA-512"
)

// DigestHeader is the lowercased name of the Digest header, suitable for
// a signed header list.
const DigestHeader = "digest"

// SetDigest reads the request body, sets the Digest header to
// "<alg>=<base64>", and replaces the body so it can be read again.
func SetDigest(r *http.Request, alg DigestAlgorithm) error {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return err
	}

	sum, err := computeDigest(body, alg)
	if err != nil {
		return err
	}

	r.Header.Set("Digest", string(alg)+"="+base64.StdEncoding.EncodeToString(sum))

	return nil
}

// VerifyDigest checks the Digest header against the request body. The
// header may list several instance digests; the first one with a
// supported algorithm is checked and the others are ignored.
func VerifyDigest(r *http.Request) error {
	header := r.Header.Get("Digest")
	if header == "" {
		return ErrDigestNotFound
	}

	body, err := readAndRestoreBody(r)
	if err != nil {
		return err
	}

	for entry := range strings.SplitSeq(header, ",") {
		alg, encoded, ok := parseDigestEntry(entry)
		if !ok {
			continue
		}

		expected, err := computeDigest(body, alg)
		if err != nil {
			return err
		}

		actual, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("%w: invalid base64 in digest", ErrDigestMismatch)
		}

		if !bytes.Equal(expected, actual) {
			return ErrDigestMismatch
		}

		return nil
	}

	return ErrUnsupportedDigest
}

// parseDigestEntry parses one "alg=base64" instance digest. Algorithm
// names are case-insensitive.
func parseDigestEntry(entry string) (DigestAlgorithm, string, bool) {
	name, value, ok := strings.Cut(strings.TrimSpace(entry), "=")
	if !ok {
		return "", "", false
	}

	alg := DigestAlgorithm(strings.ToUpper(strings.TrimSpace(name)))

	switch alg {
	case DigestSHA256, DigestSHA512:
		return alg, strings.TrimSpace(value), true
	default:
		return "", "", false
	}
}

func computeDigest(data []byte, alg DigestAlgorithm) ([]byte, error) {
	switch alg {
	case DigestSHA256:
		h := sha256.Sum256(data)
		return h[:], nil
	case DigestSHA512:
		h := sha512.Sum512(data)
		return h[:], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, alg)
	}
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again by downstream handlers.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
