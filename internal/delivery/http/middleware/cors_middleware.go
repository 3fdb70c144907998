package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	// Always allowed
	Origins []string
	// Allowed only outside production
	DevOrigins []string
	// Vercel preview deployments whose subdomain starts with this prefix
	PreviewPrefix string
	Production    bool
}

// DefaultDevOrigins are local landing-page dev servers.
var DefaultDevOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
}

// CORSMiddleware adds CORS headers for allowed origins and answers their
// preflight requests. Every other OPTIONS request, including preflights from
// unknown origins, passes through so method restrictions still apply.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Origins)+len(cfg.DevOrigins))
	for _, o := range cfg.Origins {
		allowed[o] = true
	}
	if !cfg.Production {
		for _, o := range cfg.DevOrigins {
			allowed[o] = true
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		isAllowed := allowed[origin]

		// Pattern: https://<prefix>*.vercel.app
		if !isAllowed && cfg.PreviewPrefix != "" && strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".vercel.app") {
			subdomain := strings.TrimSuffix(strings.TrimPrefix(origin, "https://"), ".vercel.app")
			if strings.HasPrefix(subdomain, cfg.PreviewPrefix) && !strings.Contains(subdomain, ".") {
				isAllowed = true
			}
		}

		if origin != "" && isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
			c.Header("Access-Control-Max-Age", "86400")
		}

		// Caches must differentiate by Origin
		c.Header("Vary", "Origin")

		isPreflight := c.Request.Method == http.MethodOptions &&
			origin != "" &&
			c.Request.Header.Get("Access-Control-Request-Method") != ""
		if isPreflight && isAllowed {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
