package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-directory/internal/interface/http"
)

// UserModule wires the directory JSON endpoints, all read-only:
// GET /api/users, GET /api/users/search, GET /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, limits Limits) *UserModule {
	return &UserModule{Handler: h, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users", m.Limits.general())
	{
		users.GET("", m.Handler.List)
		// search has its own stricter budget on top of the general one
		users.GET("/search", m.Limits.search(), m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
	}
}
