package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/auth"
)

// SessionCookie is the cookie the gatekeeper accepts as an alternative to
// the Authorization header, for browser navigations.
const SessionCookie = "ac_session"

// Context keys populated for downstream handlers after a successful
// verification.
const (
	CtxIdentityID = "identity_id"
	CtxRole       = "role"
)

// Classifier decides whether a request path is public. Anything it does
// not explicitly allow is protected: the classifier is default-deny.
type Classifier struct {
	publicPrefixes []string
	publicExact    map[string]struct{}
}

// NewClassifier builds a Classifier from exact public paths and public
// path prefixes.
func NewClassifier(exact []string, prefixes []string) *Classifier {
	m := make(map[string]struct{}, len(exact))
	for _, p := range exact {
		m[p] = struct{}{}
	}
	return &Classifier{publicPrefixes: prefixes, publicExact: m}
}

// Public reports whether the path may be served without authentication.
func (c *Classifier) Public(path string) bool {
	if _, ok := c.publicExact[path]; ok {
		return true
	}
	for _, p := range c.publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Gatekeeper authenticates every request to a protected path. Public paths
// pass through untouched. On a protected path the session token is read
// from the Authorization header or the session cookie and verified with
// the codec; on success the identity id and role claims are injected into
// the request context. Handlers still run their own role gates; the
// gatekeeper authenticates, it does not authorize.
//
// Failure handling splits by caller type: browser navigations are
// redirected to loginPath with the originally requested path in
// `callbackUrl` so the user lands back where they were headed; API calls
// get a 401.
func Gatekeeper(codec *auth.Codec, classifier *Classifier, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if classifier.Public(c.Request().URL.Path) {
				return next(c)
			}

			token := extractToken(c)
			claims, err := verify(codec, token)
			if err != nil {
				if wantsHTML(c.Request()) {
					return c.Redirect(http.StatusFound, loginURL(loginPath, c.Request().URL))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(CtxIdentityID, claims.IdentityID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// verify fails closed: a missing token, a codec error, or empty claims all
// yield ErrInvalidToken.
func verify(codec *auth.Codec, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return codec.Verify(token)
}

// extractToken prefers the Authorization header and falls back to the
// session cookie.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// wantsHTML reports whether the request looks like a browser navigation
// rather than an API call.
func wantsHTML(r *http.Request) bool {
	if r.Header.Get("Authorization") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// loginURL builds the login redirect preserving the original destination.
func loginURL(loginPath string, original *url.URL) string {
	q := url.Values{}
	q.Set("callbackUrl", original.RequestURI())
	return loginPath + "?" + q.Encode()
}
