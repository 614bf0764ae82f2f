package middlewares

import (
	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
	"github.com/polynode-io/polynode-boilerplate-webserver/pkg/sanitizer"
)

// SanitizeBody returns a pre-hook that cleans every string of the decoded JSON
// body with fn. Nil fn strips all HTML.
//
//	webserver.WithPreHooks(middlewares.SanitizeBody(sanitizer.SanitizeHTML))
func SanitizeBody(fn func(string) string) internal.Stage {
	if fn == nil {
		fn = sanitizer.StripHTML
	}
	return func(c internal.Context) error {
		if body := c.Body(); body != nil {
			c.SetBody(sanitizer.Tree(body, fn))
		}
		return nil
	}
}
