package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/twilio/twilio-go/client"
	"golang.org/x/time/rate"
)

// maxTrackedClients caps the rate limiter map.
const maxTrackedClients = 4096

// idleClientTTL is how long an unseen client keeps its limiter. After a
// minute the bucket is full again, so dropping it changes nothing.
const idleClientTTL = time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	seq      uint64
}

type Middleware struct {
	jwtSecret    []byte
	rateLimiters map[string]*clientLimiter
	maxClients   int
	seq          uint64
	mu           sync.Mutex
}

func NewMiddleware(historySecret string) *Middleware {
	var secret []byte
	if historySecret != "" {
		secret = []byte(historySecret)
	}
	return &Middleware{
		jwtSecret:    secret,
		rateLimiters: make(map[string]*clientLimiter),
		maxClients:   maxTrackedClients,
	}
}

// HistoryAuth requires a valid HS256 bearer token when a secret is configured.
func (m *Middleware) HistoryAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.jwtSecret == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
			c.Set("subject", sub)
		}
		c.Next()
	}
}

// RateLimitPerClient limits requests per client IP. perMinute <= 0 disables it.
func (m *Middleware) RateLimitPerClient(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		if !m.limiterFor(c.ClientIP(), limit, perMinute).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// limiterFor returns the limiter of key, creating it if needed. At the cap,
// idle clients are pruned first, then the least recently seen one is evicted.
func (m *Middleware) limiterFor(key string, limit rate.Limit, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.seq++

	if entry, ok := m.rateLimiters[key]; ok {
		entry.lastSeen = now
		entry.seq = m.seq
		return entry.limiter
	}

	if len(m.rateLimiters) >= m.maxClients {
		for k, entry := range m.rateLimiters {
			if now.Sub(entry.lastSeen) >= idleClientTTL {
				delete(m.rateLimiters, k)
			}
		}
	}
	for len(m.rateLimiters) > 0 && len(m.rateLimiters) >= m.maxClients {
		oldestKey, oldestSeq := "", uint64(0)
		for k, entry := range m.rateLimiters {
			if oldestKey == "" || entry.seq < oldestSeq {
				oldestKey, oldestSeq = k, entry.seq
			}
		}
		delete(m.rateLimiters, oldestKey)
	}

	entry := &clientLimiter{limiter: rate.NewLimiter(limit, burst), lastSeen: now, seq: m.seq}
	m.rateLimiters[key] = entry
	return entry.limiter
}

// CORSMiddleware allows Cross-Origin requests
func (m *Middleware) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders adds security headers to every response
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// The voice page runs an inline script.
		c.Writer.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'")

		c.Next()
	}
}

// RequestSizeLimiter limits request body size
func RequestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// TwilioSignature rejects webhook calls whose X-Twilio-Signature does not
// match. baseURL is the public scheme://host the provider calls; when empty
// it is derived from the request.
func TwilioSignature(authToken, baseURL string) gin.HandlerFunc {
	validator := client.NewRequestValidator(authToken)

	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			slog.Error("failed to parse webhook form", "error", err)
			renderTwiML(c, http.StatusInternalServerError, DisruptedReply)
			c.Abort()
			return
		}

		fullURL := requestURL(c.Request, baseURL)
		params := make(map[string]string, len(c.Request.PostForm))
		for k := range c.Request.PostForm {
			params[k] = c.Request.PostForm.Get(k)
		}

		got := c.GetHeader("X-Twilio-Signature")
		if got == "" || !validator.Validate(fullURL, params, got) {
			slog.Warn("rejected webhook with bad signature", "url", fullURL, "client", c.ClientIP())
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

func requestURL(r *http.Request, baseURL string) string {
	if baseURL != "" {
		return baseURL + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
