package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct {
	Limits Limits
}

func NewDebugModule(limits Limits) *DebugModule { return &DebugModule{Limits: limits} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters (populate_attempts, populate_failures, populated_users), rate-limited per IP
	rg.GET("/debug/vars", m.Limits.general(), gin.WrapH(expvar.Handler()))
}
