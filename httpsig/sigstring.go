package httpsig

import "strings"

// SigningString builds the canonical string that gets signed for the given
// header names, one "name: value" line per name joined by "\n" with no
// trailing newline. Lines follow the order of headers exactly.
//
// Names are lowercased. The (request-target) pseudo-header expands to the
// lowercased method and the request target. Any other name is looked up and
// its values are trimmed and joined with ", ". A header absent from the
// request fails with a HeaderNotInRequest error naming it.
func SigningString(headers []string, r *Request) (string, error) {
	var b strings.Builder

	for i, name := range headers {
		name = strings.ToLower(name)

		if i > 0 {
			b.WriteByte('\n')
		}

		if name == RequestTarget {
			b.WriteString(RequestTarget)
			b.WriteString(": ")
			b.WriteString(requestTargetValue(r))

			continue
		}

		values := r.Header(name)
		if len(values) == 0 {
			return "", newError(KindHeaderNotInRequest, name)
		}

		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headerValue(values))
	}

	return b.String(), nil
}

// headerValue joins multiple values of one header in request order.
func headerValue(values []string) string {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}

	return strings.TrimSpace(strings.Join(trimmed, ", "))
}
