package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
)

// ActorID returns the authenticated caller's ID. Routes behind the auth
// middleware always have one.
func ActorID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(middleware.ContextUserID)
	id, _ := v.(uuid.UUID)
	return id
}

// ActorRole returns the authenticated caller's role.
func ActorRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}
