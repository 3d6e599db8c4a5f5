package router

import (
	"github.com/oksasatya/go-user-directory/internal/container"
	handlers "github.com/oksasatya/go-user-directory/internal/interface/http"
	"github.com/oksasatya/go-user-directory/internal/interface/middleware"
	"github.com/oksasatya/go-user-directory/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := container.UserService()

	limits := modules.Limits{
		Redis:     rdb,
		PerMinute: cfg.RateLimitPerMinute,
		Search:    cfg.SearchRateLimitPerMinute,
	}
	if cfg.RateLimitBypassPrivate {
		limits.Allow = middleware.AllowPrivateIP()
	}

	checks := map[string]handlers.Pinger{"postgres": container.UserStore()}
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(logger, checks)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger), limits))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
	if cfg.WebEnabled {
		r.AddRoot(modules.NewWebModule(handlers.NewWebHandler(svc, cfg.AppName, logger), limits))
		r.AddRoot(faviconModule)
	}
}
