// Package middlewares provides pre-hook stages for the webserver pipeline.
//
// Pre-hooks run in registration order after the context stage and before
// the route's main stage:
//
//	srv := webserver.New(
//	    webserver.WithLogger("api", middlewares.RequestIDExtractor()),
//	    webserver.WithPreHooks(
//	        middlewares.RequestID(),
//	        middlewares.RequestLogger(),
//	        middlewares.Timeout(5*time.Second),
//	        middlewares.SanitizeBody(nil),
//	        middlewares.Authenticate(verifyToken),
//	    ),
//	)
//
// # Request ID
//
// RequestID reuses an incoming X-Request-ID (or X-Correlation-ID) header or
// generates a UUID. RequestIDExtractor adds it to every log entry.
//
// # Timeout
//
// Timeout installs a deadline on the request context. When it passes, the
// next stage is skipped and the error stage answers with a TimeoutError
// (503 unless WithTimeoutStatus says otherwise).
//
// # Authenticate
//
// Authenticate extracts a credential (Bearer token by default), verifies it
// and stores the identity for GetIdentity. Routes registered with
// webserver.AllowAnonymous() are let through without one.
package middlewares
