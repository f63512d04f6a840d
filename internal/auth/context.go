package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/sellora/pos-service/internal/model"
)

// Identity is verified upstream (API gateway); it reaches this service as
// plain headers.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

type Actor struct {
	UserID string
	Role   model.Role
}

func GetActor(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetHeader(HeaderUserID),
		Role:   model.Role(c.GetHeader(HeaderRole)),
	}
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}
