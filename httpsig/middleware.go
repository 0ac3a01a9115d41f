package httpsig

import (
	"errors"
	"net/http"

	"github.com/cmstar/go-errx"
	"github.com/cmstar/go-logx"
)

// MiddlewareFunc wraps an http.Handler. It has the same shape as the
// middleware types of most routers, so it can be passed to their Use
// methods directly.
type MiddlewareFunc func(http.Handler) http.Handler

// MiddlewareConfig configures the server-side signature verification
// middleware.
type MiddlewareConfig struct {
	// Verifier checks incoming requests. It must be built with the
	// net_http adapter. Required.
	Verifier *Verifier

	// OnError is called when verification fails. When nil, a plain 401
	// Unauthorized response is sent.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// Logger receives one entry per rejected request. Optional.
	Logger logx.Logger

	// RequireDigest makes the middleware also check the Digest header
	// against the request body once the signature is verified.
	RequireDigest bool
}

// Middleware returns a MiddlewareFunc that verifies signatures on incoming
// requests.
//
// It returns ErrNoVerifier if MiddlewareConfig.Verifier is nil.
func Middleware(cfg MiddlewareConfig) (MiddlewareFunc, error) {
	if cfg.Verifier == nil {
		return nil, ErrNoVerifier
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	verifier := cfg.Verifier
	logger := cfg.Logger
	requireDigest := cfg.RequireDigest

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := verifier.Verify(r.Context(), r)
			if err == nil && requireDigest {
				err = VerifyDigest(r)
			}

			if err != nil {
				LogRejection(logger, r, err)
				onError(w, r, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// defaultOnError writes a 401 Unauthorized response with no body.
func defaultOnError(w http.ResponseWriter, _ *http.Request, _ error) {
	w.WriteHeader(http.StatusUnauthorized)
}

// LogLevel returns the level a verification failure is logged at.
// Failures caused by the request itself (any Kind, or a Digest problem)
// are warnings; anything else, such as a key store backend failure, is an
// error.
func LogLevel(err error) logx.Level {
	if _, ok := KindOf(err); ok {
		return logx.LevelWarn
	}

	if errors.Is(err, ErrDigestMismatch) || errors.Is(err, ErrDigestNotFound) || errors.Is(err, ErrUnsupportedDigest) {
		return logx.LevelWarn
	}

	return logx.LevelError
}

// LogRejection logs a rejected request to logger. A nil logger is a no-op.
func LogRejection(logger logx.Logger, r *http.Request, err error) {
	if logger == nil {
		return
	}

	kind, _ := KindOf(err)

	path := ""
	if r.URL != nil {
		path = r.URL.Path
	}

	_ = logger.Log(LogLevel(err), "request signature rejected",
		"Kind", string(kind),
		"Error", errx.Describe(err),
		"Method", r.Method,
		"Path", path,
	)
}
