package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"learnpath/pkg/utils"
)

const (
	SessionCookieName = "learnpath_session"
	SessionTokenKey   = "session_token"
)

// SessionMiddleware resolves the browser's session token from the signed
// cookie, minting a new token when the cookie is missing or fails to verify.
func SessionMiddleware(signer *utils.SessionSigner, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			token, err := signer.Verify(raw)
			if err == nil {
				c.Set(SessionTokenKey, token)
				c.Next()
				return
			}
			zap.L().Debug("session cookie rejected", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		}

		token := uuid.NewString()
		signed, err := signer.Sign(token)
		if err != nil {
			zap.L().Error("sign session cookie", zap.Error(err))
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		// MaxAge 0 keeps it a browser-session cookie.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, signed, 0, "/", "", secure, true)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

func SessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}
