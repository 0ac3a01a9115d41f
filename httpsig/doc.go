// Package httpsig signs and verifies HTTP requests with the Signature
// header scheme of draft-cavage-http-signatures.
//
// A signature covers a list of header names. Each name contributes one
// "name: value" line to the signing string; the pseudo-header
// (request-target) contributes the lowercased method and the path with
// query. The signature travels in a parameter string:
//
//	keyId="app_1.v1",algorithm="rsa-sha256",headers="(request-target) host date",signature="..."
//
// carried either in a Signature header or in an Authorization header with
// the Signature scheme.
//
// # Supported Algorithms
//
//   - rsa-sha1, rsa-sha256, rsa-sha512 (RSASSA-PKCS1-v1_5)
//   - dsa-sha1 (DSA, ASN.1 DER signatures)
//   - hmac-sha1, hmac-sha256, hmac-sha512 (HMAC)
//
// # Keys and Adapters
//
// Keys are resolved by keyId through a KeyStore (see package keystore).
// Requests reach the signer and verifier through an Adapter chosen by name:
// "net_http" for *http.Request and "plaintext" for raw HTTP/1.x text.
//
// # Signing Requests
//
//	signer, err := httpsig.NewSigner(httpsig.Config{
//	    Adapter:  httpsig.AdapterNetHTTP,
//	    KeyStore: keys,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sig, err := signer.Sign(ctx, req, "app_1.v1", httpsig.RSASHA256, "(request-target)", "host", "date")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Header.Set("Signature", sig)
//
// # Verifying Requests
//
//	verifier, err := httpsig.NewVerifier(httpsig.Config{
//	    Adapter:  httpsig.AdapterNetHTTP,
//	    KeyStore: keys,
//	})
//
//	if err := verifier.Verify(ctx, req); err != nil {
//	    switch {
//	    case errors.Is(err, httpsig.ErrSignatureMismatch):
//	        // forged or altered request
//	    case errors.Is(err, httpsig.ErrKeyNotFound):
//	        // unknown client
//	    }
//	}
//
// # Client Transport
//
// NewTransport creates an http.RoundTripper that signs all outgoing
// requests, adding a Date header when missing:
//
//	transport, err := httpsig.NewTransport(nil, httpsig.TransportConfig{
//	    Signer:    signer,
//	    KeyID:     "app_1.v1",
//	    Algorithm: httpsig.RSASHA256,
//	    Headers:   []string{"(request-target)", "host", "date"},
//	})
//	client := &http.Client{Transport: transport}
//
// # Server Middleware
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//	    Verifier: verifier,
//	    Logger:   logx.NewStdLogger(nil),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
//
// # Digest
//
// SetDigest and VerifyDigest handle the RFC 3230 Digest header, so a signed
// "digest" header also covers the request body:
//
//	err := httpsig.SetDigest(req, httpsig.DigestSHA256)
package httpsig
