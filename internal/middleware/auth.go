package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/models"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// AuthMiddleware is the request gate: it reads the bearer token from the
// cookie, verifies it and resolves the user before any handler runs. It is
// mounted on the whole project API prefix, so an unauthenticated request is
// rejected regardless of which endpoint it targets. Identity comes only
// from the verified token, never from the request body.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := ctx.Cookie(auth.CookieName)

		if err != nil || tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed: no token provided"})
			return
		}

		userID, err := auth.VerifyJWT(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed: invalid token"})
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Email: user.Email,
		})
		ctx.Next()
	}
}
