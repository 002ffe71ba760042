package cookie

import "github.com/gin-gonic/gin"

const AccessTokenCookieName = "access_token"

// GetAccessToken reads the access token cookie set by the platform's auth
// service. Empty string when absent; the middleware falls back to the
// Authorization header.
func GetAccessToken(c *gin.Context) string {
	token, err := c.Cookie(AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return token
}
