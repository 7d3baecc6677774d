package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"stock-board/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

const visitorKeyContext = "visitor_key"

// -----------------------------------------------------------------------------

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+RequestIDHeader)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// -----------------------------------------------------------------------------

// requestID keeps a caller supplied correlation id or mints a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// -----------------------------------------------------------------------------

func accessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("%s %s %d %s id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Round(time.Microsecond), c.GetString(RequestIDHeader))
	}
}

// -----------------------------------------------------------------------------

// visitorKey identifies the caller: the first X-Forwarded-For entry, else the
// connection's remote address.
func visitorKey(c *gin.Context) string {
	if key := c.GetString(visitorKeyContext); key != "" {
		return key
	}
	key := ""
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		key = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if key == "" {
		key = c.RemoteIP()
	}
	if key == "" {
		key = "unknown"
	}
	c.Set(visitorKeyContext, key)
	return key
}

// -----------------------------------------------------------------------------
// Per-visitor rate limiting
// -----------------------------------------------------------------------------

type visitorLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*rate.Limiter
}

// newVisitorLimiter returns nil, which disables limiting, when perSecond is
// not positive.
func newVisitorLimiter(perSecond float64, burst int) *visitorLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &visitorLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		visitors: make(map[string]*rate.Limiter),
	}
}

func (v *visitorLimiter) get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, ok := v.visitors[key]
	if !ok {
		l = rate.NewLimiter(v.limit, v.burst)
		v.visitors[key] = l
	}
	return l
}

func (v *visitorLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		if !v.get(visitorKey(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many requests"})
			return
		}
		c.Next()
	}
}
