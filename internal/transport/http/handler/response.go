package handler

import (
	"net/http"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeResponse applies a framework-independent response to gin.
func writeResponse(c *gin.Context, res domain.Response) {
	for k, v := range res.Headers {
		c.Header(k, v)
	}
	for _, ck := range res.SetCookies {
		http.SetCookie(c.Writer, toHTTPCookie(ck))
	}
	c.JSON(res.Status, res.Body)
}

func toHTTPCookie(ck domain.Cookie) *http.Cookie {
	out := &http.Cookie{
		Name:     ck.Name,
		Value:    ck.Value,
		Path:     ck.Path,
		MaxAge:   ck.MaxAge,
		HttpOnly: ck.HTTPOnly,
		Secure:   ck.Secure,
	}
	switch ck.SameSite {
	case domain.SameSiteStrict:
		out.SameSite = http.SameSiteStrictMode
	case domain.SameSiteLax:
		out.SameSite = http.SameSiteLaxMode
	}
	return out
}
