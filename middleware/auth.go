package middleware

import (
	"net/http"
	"strings"

	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func extractJwtClaims(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		c.Abort()
		return nil, false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format, expected: Bearer <token>"})
		c.Abort()
		return nil, false
	}

	tokenString := strings.Trim(parts[1], "\"' ")

	claims, err := utils.DecodeJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		c.Abort()
		return nil, false
	}

	return claims, true
}

// WalletAuth authenticates the session JWT and puts the caller's checksummed
// wallet address into the context. Every state-changing route uses it; the
// wallet in the token is the msg.sender equivalent for the ledger.
func WalletAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		wallet, ok := claims["wallet"].(string)
		if !ok || wallet == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
			c.Abort()
			return
		}

		normalized, err := utils.NormalizeAddress(wallet)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid wallet in token"})
			c.Abort()
			return
		}

		c.Set("wallet", normalized)
		c.Next()
	}
}
