package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-directory/internal/interface/middleware"
)

// Limits are the per-IP request budgets shared by the modules. A nil Redis
// client or a non-positive budget disables limiting.
type Limits struct {
	Redis     *redis.Client
	PerMinute int
	Search    int
	Allow     middleware.AllowFunc
}

func (l Limits) general() gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, l.PerMinute, time.Minute, middleware.KeyByIP(), l.Allow)
}

func (l Limits) search() gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, l.Search, time.Minute, middleware.KeyByIPAndPath(), l.Allow)
}
