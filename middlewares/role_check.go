package middlewares

import (
	"fmt"
	"net/http"

	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
)

// RequireRoles allows only the listed roles through. Admin always passes.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole == "admin" {
			c.Next()
			return
		}
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("insufficient permissions"))
		c.Abort()
	}
}
