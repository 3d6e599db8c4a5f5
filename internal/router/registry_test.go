package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/config"
	"github.com/oksasatya/go-user-directory/internal/container"
)

func pingModule(path string) Module {
	return ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET(path, func(c *gin.Context) { c.String(http.StatusOK, c.GetString("mw")) })
	})
}

func TestRegistry_MountsAPIAndRootModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Use(func(c *gin.Context) { c.Set("mw", "api") })
	reg.Add(pingModule("/ping"))
	reg.AddRoot(pingModule("/ping"))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "api", w.Body.String())

	w = httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestInitModules_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container.SetConfig(&config.Config{
		AppName:             "user-directory",
		SearchBackend:       config.SearchBackendPostgres,
		DebugMetricsEnabled: true,
		WebEnabled:          true,
		RandomUserBaseURL:   "https://randomuser.me",
	})
	container.SetLogger(logger)

	reg := NewRegistry(gin.New())
	InitModules(reg)
	reg.RegisterAll()

	var got []string
	for _, ri := range reg.Engine.Routes() {
		got = append(got, ri.Method+" "+ri.Path)
	}
	sort.Strings(got)
	require.Equal(t, []string{
		"GET /",
		"GET /api/debug/vars",
		"GET /api/healthz",
		"GET /api/readyz",
		"GET /api/users",
		"GET /api/users/:id",
		"GET /api/users/search",
		"GET /favicon.ico",
		"GET /search",
		"GET /users/:id",
	}, got)
}

func TestFaviconIsNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.AddRoot(faviconModule)
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
