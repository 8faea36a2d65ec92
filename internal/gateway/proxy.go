package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
	"github.com/IrshadAnsari05010/phishing-detector/internal/middleware"
)

// APIPrefix is stripped from incoming paths before forwarding.
const APIPrefix = "/api/v1"

// Proxy forwards requests to one upstream service.
type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewProxy creates a reverse proxy for rawURL. A missing scheme defaults to http.
func NewProxy(rawURL string, logger *slog.Logger) (*Proxy, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream %q: %w", rawURL, err)
	}

	p := &Proxy{target: target, logger: logger}
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.URL.Path = singleJoin(target.Path, strings.TrimPrefix(r.In.URL.Path, APIPrefix))
			r.Out.URL.RawPath = ""
			// CORS is answered by the gateway; upstream headers would duplicate it.
			r.Out.Header.Del("Origin")
			if id := middleware.RequestIDFrom(r.In.Context()); id != "" {
				r.Out.Header.Set(middleware.RequestIDHeader, id)
			}
		},
		ErrorHandler: p.errorHandler,
	}
	return p, nil
}

// Handler returns the gin handler forwarding to the upstream.
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.logger.DebugContext(c.Request.Context(), "forwarding request",
			slog.String("path", c.Request.URL.Path),
			slog.String("upstream", p.target.Host),
		)
		p.proxy.ServeHTTP(c.Writer, c.Request)
	}
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.ErrorContext(r.Context(), "proxy error",
		slog.String("upstream", p.target.Host),
		slog.Any("error", err),
	)
	// ReverseProxy only reaches here before any upstream bytes were written.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = writeJSON(w, models.UpstreamError{
		Status:  http.StatusBadGateway,
		Message: "Failed to proxy request",
		Error:   err.Error(),
	})
}

func singleJoin(base, path string) string {
	switch {
	case base == "" || base == "/":
		return path
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return base + path[1:]
	default:
		return base + path
	}
}
