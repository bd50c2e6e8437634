package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"HireDesk-backend/internal/auth"
	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// OptionalAuth attaches the user to the context when a valid token is
// presented but never rejects the request. Public endpoints use it so they
// can tailor responses for authenticated viewers.
func OptionalAuth(db *database.Instance) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.Next()
			return
		}

		token, err := auth.ValidatedToken(tokenString)
		if err != nil || !token.Valid {
			ctx.Next()
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		if claims.Issuer != auth.JwtIssuer {
			ctx.Next()
			return
		}

		var foundUser model.User
		if err := db.Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {
			ctx.Next()
			return
		}

		ctx.Set("claims", claims)
		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
