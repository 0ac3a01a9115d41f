// Package echosig plugs request signature verification into the echo web
// framework.
package echosig

import (
	"fmt"
	"net/http"

	"github.com/cmstar/go-logx"
	"github.com/labstack/echo/v4"

	"github.com/vitalvas/reqsign/httpsig"
)

// AdapterName is the name the echo adapter is registered under by
// Adapters.
const AdapterName = "echo"

// Adapter adapts echo.Context values. Plain *http.Request values are
// accepted too.
func Adapter() httpsig.Adapter {
	return httpsig.AdapterFunc(func(req any) (*httpsig.Request, error) {
		switch r := req.(type) {
		case echo.Context:
			if r.Request() == nil {
				break
			}

			return httpsig.FromHTTPRequest(r.Request())
		case *http.Request:
			if r == nil {
				break
			}

			return httpsig.FromHTTPRequest(r)
		}

		return nil, fmt.Errorf("echosig: unexpected request type %T", req)
	})
}

// Adapters returns httpsig.DefaultAdapters with the echo adapter added.
func Adapters() httpsig.Adapters {
	adapters := httpsig.DefaultAdapters()
	adapters[AdapterName] = Adapter()

	return adapters
}

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// Verifier checks incoming requests. Required. Any adapter that accepts
	// echo.Context works; the one returned by Adapter is the usual choice.
	Verifier *httpsig.Verifier

	// OnError handles a failed verification. The default responds with
	// 401 Unauthorized and no body.
	OnError func(c echo.Context, err error) error

	// Logger receives one entry per rejected request.
	Logger logx.Logger

	// RequireDigest makes the middleware also check the Digest header
	// against the request body once the signature is verified.
	RequireDigest bool
}

// Middleware returns an echo middleware that verifies request signatures.
func Middleware(cfg MiddlewareConfig) (echo.MiddlewareFunc, error) {
	if cfg.Verifier == nil {
		return nil, httpsig.ErrNoVerifier
	}

	onError := cfg.OnError
	if onError == nil {
		onError = func(c echo.Context, _ error) error {
			return c.NoContent(http.StatusUnauthorized)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			err := cfg.Verifier.Verify(r.Context(), c)
			if err == nil && cfg.RequireDigest {
				err = httpsig.VerifyDigest(r)
			}

			if err != nil {
				httpsig.LogRejection(cfg.Logger, r, err)
				return onError(c, err)
			}

			return next(c)
		}
	}, nil
}

// NewVerifier builds a verifier that uses the echo adapter.
func NewVerifier(keys httpsig.KeyStore) (*httpsig.Verifier, error) {
	return httpsig.NewVerifier(httpsig.Config{
		Adapter:  AdapterName,
		Adapters: Adapters(),
		KeyStore: keys,
	})
}
