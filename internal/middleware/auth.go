package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextPlayerToken is the gin context key the extracted bearer token is
// stored under.
const ContextPlayerToken = "player_token"

// PlayerToken pulls the opaque seat credential out of the request: an
// Authorization bearer header first, a ?token= query parameter as fallback
// for websocket-averse clients. The token is only extracted here; whether it
// matches a seat is the service's call.
func PlayerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			token = c.Query("token")
		}

		c.Set(ContextPlayerToken, token)
		c.Next()
	}
}
