package handler

import (
	"net/http"

	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error kind to an HTTP status. Unknown kinds
// are state/validation conflicts and read as 400, matching how the API
// has always reported them.
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound, service.KindInvalidCode:
		return http.StatusNotFound
	case service.KindForbidden, service.KindWrongCommunity, service.KindNotHolder:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeError renders a service failure; anything untyped is an
// internal store fault and must not leak details.
func writeError(c *gin.Context, err error) {
	if kind := service.KindOf(err); kind != "" {
		c.JSON(statusFor(kind), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}
