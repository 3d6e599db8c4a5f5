package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-directory/internal/interface/http"
)

// WebModule serves the HTML pages: GET /, GET /users/:id, GET /search
type WebModule struct {
	Handler *handlers.WebHandler
	Limits  Limits
}

func NewWebModule(h *handlers.WebHandler, limits Limits) *WebModule {
	return &WebModule{Handler: h, Limits: limits}
}

func (m *WebModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Limits.general(), m.Handler.Index)
	rg.GET("/users/:id", m.Limits.general(), m.Handler.Detail)
	rg.GET("/search", m.Limits.search(), m.Handler.Search)
}
