package middlewares

import (
	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

// identityKey is the context key for the authenticated identity.
type identityKey struct{}

// VerifyFunc turns a credential into an identity (user, claims, API key owner).
// Returning an *internal.HTTPError controls the response; any other error
// becomes 401.
type VerifyFunc func(c internal.Context, token string) (any, error)

// AuthConfig configures the authentication stage.
type AuthConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthExtractor sets a custom credential extractor chain.
func WithAuthExtractor(ext internal.Extractor) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// Authenticate returns a pre-hook that extracts a credential, verifies it and
// stores the identity in the context. Routes with the AllowAnonymous option
// pass through without a valid credential.
func Authenticate(verify VerifyFunc, opts ...AuthOption) internal.Stage {
	cfg := &AuthConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default extractor: Bearer token from Authorization header
	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromBearerToken(),
		)
	}

	return func(c internal.Context) error {
		anonymous := c.RouteOptions().AllowAnonymous

		token, ok := cfg.Extractor.Extract(c)
		if !ok {
			if anonymous {
				return nil
			}
			return internal.Unauthorized("missing authentication token")
		}

		identity, err := verify(c, token)
		if err != nil {
			if anonymous {
				c.LogDebug("ignoring invalid credential on anonymous route", "error", err.Error())
				return nil
			}
			if internal.IsHTTPError(err) {
				return err
			}
			return internal.Unauthorized("invalid token", internal.WithCause(err))
		}

		c.Set(identityKey{}, identity)
		return nil
	}
}

// GetIdentity returns the identity stored by Authenticate.
// ok is false on anonymous requests or when the type doesn't match.
func GetIdentity[T any](c internal.Context) (T, bool) {
	v, ok := c.Get(identityKey{}).(T)
	return v, ok
}
