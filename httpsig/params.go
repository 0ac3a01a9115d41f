package httpsig

import (
	"errors"
	"strings"
)

// DefaultHeaders is the signed header list used when none is given.
var DefaultHeaders = []string{"date"}

// Parameters is the record carried by the Signature header (or by an
// Authorization header with the Signature scheme).
type Parameters struct {
	// KeyID identifies the key in the key store.
	KeyID string

	// Algorithm names the signature algorithm, e.g. "rsa-sha256".
	Algorithm string

	// Headers lists the lowercased header names covered by the signature,
	// in signing string order.
	Headers []string

	// Signature is the base64-encoded signature.
	Signature string
}

// String serializes the parameters as
//
//	keyId="...",algorithm="...",headers="h1 h2",signature="..."
//
// with backslash and double quote escaped inside each value.
func (p Parameters) String() string {
	var b strings.Builder

	b.WriteString("keyId=")
	b.WriteString(quote(p.KeyID))
	b.WriteString(",algorithm=")
	b.WriteString(quote(p.Algorithm))
	b.WriteString(",headers=")
	b.WriteString(quote(strings.Join(p.Headers, " ")))
	b.WriteString(",signature=")
	b.WriteString(quote(p.Signature))

	return b.String()
}

// ParseParameters parses a signature parameter string of comma-separated
// name="value" fields.
//
// Every field value must be a well-formed quoted string. Repeated fields
// keep the last value and unknown fields are ignored. keyId, algorithm and
// signature are required. headers is split on whitespace and lowercased,
// defaulting to DefaultHeaders when absent or empty.
func ParseParameters(s string) (Parameters, error) {
	var params Parameters

	fields, err := parseFields(s)
	if err != nil {
		return params, err
	}

	for _, name := range []string{"keyId", "algorithm", "signature"} {
		if fields[name] == "" {
			return params, newError(KindBadSignatureParameters, name+" is required")
		}
	}

	params.KeyID = fields["keyId"]
	params.Algorithm = fields["algorithm"]
	params.Signature = fields["signature"]

	for _, h := range strings.Fields(fields["headers"]) {
		params.Headers = append(params.Headers, strings.ToLower(h))
	}

	if len(params.Headers) == 0 {
		params.Headers = append([]string(nil), DefaultHeaders...)
	}

	return params, nil
}

var errUnbalancedQuote = errors.New("unbalanced quote")

// parseFields splits s into name/value pairs with the quotes removed.
func parseFields(s string) (map[string]string, error) {
	fields := make(map[string]string)

	for _, field := range splitQuoteAware(s, ',') {
		name, quoted, ok := strings.Cut(field, "=")
		if !ok {
			return nil, newError(KindBadSignatureParameters, "malformed field "+field)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return nil, newError(KindBadSignatureParameters, "malformed field "+field)
		}

		value, err := unquote(strings.TrimSpace(quoted))
		if err != nil {
			return nil, wrapError(KindBadSignatureParameters, "malformed value of "+name, err)
		}

		fields[name] = value
	}

	return fields, nil
}

// splitQuoteAware splits s on delim while respecting "..." quoted regions.
// Backslash-escaped quotes (\") inside quoted strings are handled. Each
// resulting part is trimmed of whitespace and empty parts are skipped.
func splitQuoteAware(s string, delim byte) []string {
	var result []string
	var part strings.Builder
	inQuote := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inQuote {
			if ch == '\\' && i+1 < len(s) {
				part.WriteByte(ch)
				i++
				part.WriteByte(s[i])
				continue
			}

			if ch == '"' {
				inQuote = false
			}

			part.WriteByte(ch)
			continue
		}

		if ch == '"' {
			inQuote = true
			part.WriteByte(ch)
			continue
		}

		if ch == delim {
			if p := strings.TrimSpace(part.String()); p != "" {
				result = append(result, p)
			}

			part.Reset()
			continue
		}

		part.WriteByte(ch)
	}

	if p := strings.TrimSpace(part.String()); p != "" {
		result = append(result, p)
	}

	return result
}

// quote produces a quoted-string, escaping only backslash and double quote.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' || ch == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(ch)
	}

	b.WriteByte('"')

	return b.String()
}

// unquote strips the surrounding double quotes from s and resolves
// backslash escapes. s must be exactly one quoted-string.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.New("value is not a quoted string")
	}

	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 == len(s) {
				return "", errUnbalancedQuote
			}

			i++
			b.WriteByte(s[i])

		case '"':
			return "", errUnbalancedQuote

		default:
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}
