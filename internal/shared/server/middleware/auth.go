package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey = "userId"

	// GuestHeader and GuestCookie carry the caller's guest id.
	GuestHeader = "X-Guest-Id"
	GuestCookie = "guest_id"

	guestCookieMaxAge = 60 * 60 * 24 * 365
	maxGuestIDLen     = 128
)

// Guest resolves the caller's guest identity from the X-Guest-Id header or
// the guest_id cookie. Callers without one are issued a new id in a cookie,
// so a browser keeps the same workspace across requests.
func Guest(env string) gin.HandlerFunc {
	secure := env == "production" || env == "staging"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		guestID := cleanGuestID(c.GetHeader(GuestHeader))
		if guestID == "" {
			if cookie, err := c.Cookie(GuestCookie); err == nil {
				guestID = cleanGuestID(cookie)
			}
		}
		if guestID == "" {
			guestID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(GuestCookie, guestID, guestCookieMaxAge, "/", "", secure, true)
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set("isGuest", true)
		c.Next()
	}
}

func cleanGuestID(raw string) string {
	id := strings.TrimSpace(raw)
	if len(id) > maxGuestIDLen {
		return ""
	}
	return id
}

// UserIDFromContext fetches the owner id set by Guest.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
