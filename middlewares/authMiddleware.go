package middlewares

import (
	"net/http"
	"strings"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and loads the caller's identity
// into the request context: user id, username, superuser flag, and the stock
// the caller's client operates on. Requests without a token pass through;
// handlers that need identity reject them via RequireAuth.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, auth)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUsernameInContext(ctx, claim.Username)
		ctx = utils.SetIsSuperuserInContext(ctx, claim.IsSuperuser)

		// the client row ties the login to its sector stock
		if client, err := models.GetClientByUserId(ctx, claim.ID); err == nil {
			ctx = utils.SetClientNameInContext(ctx, client.Name)
			ctx = utils.SetStockIdInContext(ctx, client.StockId)
		} else {
			logger := config.GetLogger()
			config.LogError(logger, "authMiddleware.go", "AuthMiddleware", "client lookup", claim.ID, err)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth aborts requests that carry no authenticated user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperuser aborts requests whose user is not a superuser.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		isSuperuser, ok := utils.GetIsSuperuserFromContext(c.Request.Context())
		if !ok || !isSuperuser {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
