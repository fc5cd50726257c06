package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	ctxUserKey      = "user"
	ctxRequestIDKey = "request_id"

	maxRequestIDLen = 128
)

// requestID propagates a caller-supplied X-Request-ID or mints one.
func (h *Handler) requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(headerRequestID))
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	h.log.Infow("http_request",
		"method", c.Request.Method,
		"route", c.FullPath(),
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", c.GetString(ctxRequestIDKey),
	)
}

// observe feeds request count and latency into the metrics collector.
func (h *Handler) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.opts.Metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
}

// cors allows the configured browser origins. Preflights end here with 204.
func (h *Handler) cors(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin != "" && slices.Contains(h.opts.AllowedOrigins, origin) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")
		c.Header("Vary", "Origin")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// authRequired resolves the bearer token to a user and stores it in the context.
func (h *Handler) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthorized(c, "missing Authorization header")
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		abortUnauthorized(c, "invalid Authorization header format")
		return
	}

	user, err := h.services.CurrentUser(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		h.respondError(c, err, "auth_token_rejected")
		return
	}

	c.Set(ctxUserKey, user)
	c.Next()
}

// requireRole must run after authRequired.
func (h *Handler) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := service.RequireRole(currentUser(c), roles...); err != nil {
			h.respondError(c, err, "auth_role_rejected", "roles", roles)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
