package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Module mounts one feature's routes. The registry picks the group: /api for
// JSON modules, the engine root for the HTML pages.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

// faviconModule answers browsers asking for an icon the pages do not ship,
// keeping those requests out of the error log.
var faviconModule = ModuleFunc(func(rg *gin.RouterGroup) {
	rg.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })
})
