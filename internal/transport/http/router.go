package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect-n/backend/internal/transport/http/middleware"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	AllowedOrigins []string
	// StaticDir holds the built frontend, skipped when it does not exist
	StaticDir string
	// WebSocket, when set, is mounted at /ws
	WebSocket http.HandlerFunc
}

func NewRouter(games *GameHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	router.GET("/newgame", games.NewGame)
	router.GET("/makemove", games.MakeMove)
	router.GET("/api/score", games.Score)

	if opts.WebSocket != nil {
		router.GET("/ws", gin.WrapF(opts.WebSocket))
	}

	if opts.StaticDir != "" {
		serveStatic(router, opts.StaticDir)
	}

	return router
}

// serveStatic serves the single page frontend with an index.html fallback
func serveStatic(router *gin.Engine, dir string) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	index := filepath.Join(dir, "index.html")

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})

	router.NoRoute(func(c *gin.Context) {
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))

		// Serve actual static files if they exist
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}

		// For asset requests that don't exist, return 404
		if strings.HasPrefix(c.Request.URL.Path, "/assets/") || strings.HasSuffix(c.Request.URL.Path, ".css") || strings.HasSuffix(c.Request.URL.Path, ".js") {
			c.Status(http.StatusNotFound)
			return
		}

		c.File(index)
	})
}
