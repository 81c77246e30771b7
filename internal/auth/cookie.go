package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/config"
)

// CookieName is the cookie carrying the bearer token on every request.
const CookieName = "token"

// SetAuthCookie attaches the session token to the response. HttpOnly and
// SameSite=Strict keep the token away from scripts and cross-site requests;
// Secure is dropped outside production so local HTTP development works.
func SetAuthCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.C.Domain,
		MaxAge:   int(TokenTTL.Seconds()),
		Secure:   config.C.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearAuthCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.C.Domain,
		MaxAge:   -1,
		Secure:   config.C.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
