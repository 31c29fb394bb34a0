package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler reports the guest identity the request was attributed to, so a
// client that relies on the cookie can learn its id.
func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing guest identity", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"userId":  userID,
		"guestId": strings.TrimPrefix(userID, "guest:"),
		"isGuest": c.GetBool("isGuest"),
	})
}
