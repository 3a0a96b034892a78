package usecase

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
)

// SessionCookieNames are the auth library cookies that mark a signed-in
// browser. Presence is enough; the value is never verified here.
var SessionCookieNames = []string{
	"authjs.session-token",
	"__Secure-authjs.session-token",
	"next-auth.session-token",
	"__Secure-next-auth.session-token",
}

const (
	pathHome      = "/"
	pathAbout     = "/about"
	pathLogin     = "/login"
	pathDashboard = "/dashboard"
	prefixAPI     = "/api/"
)

var publicPaths = map[string]bool{
	pathHome:  true,
	pathAbout: true,
	pathLogin: true,
}

var (
	dashboardPrefixes = []string{"/dashboard"}
	loginPrefixes     = []string{"/profile", "/settings"}
)

var staticImageExts = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}

// AccessRouter decides, from path and session presence alone, whether a
// request is forwarded or redirected.
type AccessRouter struct {
	cookieNames []string
}

// NewAccessRouter returns a router probing the given cookie names.
// With no names it falls back to SessionCookieNames.
func NewAccessRouter(cookieNames ...string) *AccessRouter {
	if len(cookieNames) == 0 {
		cookieNames = SessionCookieNames
	}
	return &AccessRouter{cookieNames: cookieNames}
}

// SessionPresent reports whether any recognized session cookie carries a value.
func (a *AccessRouter) SessionPresent(cookies map[string]string) bool {
	return a.SessionCookie(cookies) != ""
}

// SessionCookie returns the value of the first recognized session cookie, or "".
func (a *AccessRouter) SessionCookie(cookies map[string]string) string {
	for _, name := range a.cookieNames {
		if v := cookies[name]; v != "" {
			return v
		}
	}
	return ""
}

// Classify reports which route class path belongs to.
func (a *AccessRouter) Classify(path string) domain.RouteClass {
	switch {
	case strings.HasPrefix(path, prefixAPI):
		return domain.RouteAPI
	case publicPaths[path]:
		return domain.RoutePublic
	case hasAnyPrefix(path, dashboardPrefixes), hasAnyPrefix(path, loginPrefixes):
		return domain.RouteProtected
	default:
		return domain.RouteOther
	}
}

// Decide applies the access table. Public routes are exempt from the
// unauthenticated redirects only; "/" and "/login" still send signed-in
// users to the dashboard.
func (a *AccessRouter) Decide(path string, authenticated bool) domain.Decision {
	if strings.HasPrefix(path, prefixAPI) {
		return forward("api")
	}

	if !authenticated && !publicPaths[path] {
		if hasAnyPrefix(path, dashboardPrefixes) {
			return redirect(pathHome, "unauthenticated_dashboard")
		}
		if hasAnyPrefix(path, loginPrefixes) {
			return redirect(loginWithCallback(path), "unauthenticated_protected")
		}
	}

	if authenticated && (path == pathHome || path == pathLogin) {
		return redirect(pathDashboard, "authenticated_landing")
	}

	if publicPaths[path] {
		return forward("public")
	}
	return forward("default")
}

// Evaluate runs the full procedure on a framework-independent request.
// A zero Status means forward.
func (a *AccessRouter) Evaluate(req domain.Request) domain.Response {
	d := a.Decide(req.Path, a.SessionPresent(req.Cookies))
	if !d.IsRedirect() {
		return domain.Response{}
	}
	return domain.Response{
		Status:  http.StatusTemporaryRedirect,
		Headers: map[string]string{"Location": d.Location},
	}
}

// Excluded reports whether path is a static asset that never reaches the router.
func Excluded(path string) bool {
	p := strings.TrimPrefix(path, "/")
	switch {
	case strings.HasPrefix(p, "_next/static"), strings.HasPrefix(p, "_next/image"):
		return true
	case strings.HasPrefix(p, "favicon.ico"):
		return true
	}
	for _, ext := range staticImageExts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func loginWithCallback(path string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
	return pathLogin + "?callbackUrl=" + escaped
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func forward(reason string) domain.Decision {
	return domain.Decision{Action: domain.ActionForward, Reason: reason}
}

func redirect(location, reason string) domain.Decision {
	return domain.Decision{Action: domain.ActionRedirect, Location: location, Reason: reason}
}
