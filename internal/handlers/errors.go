package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref    = "invalid body: "
	errInvalidQueryPref   = "invalid query: "
	errInvalidID          = "invalid id"
	errBadCredentials     = "incorrect email or password"
	errCouldNotValidate   = "could not validate credentials"
	errTokenExpired       = "token expired"
	errNotEnoughPrivilege = "not enough permissions"
	errInternal           = "internal server error"
)

// statusFor maps a service error onto an HTTP status and the message shown
// to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, errBadCredentials
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, errTokenExpired
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, errCouldNotValidate
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, errNotEnoughPrivilege
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// respondError logs err under logKey and aborts with the mapped status.
// 5xx details stay in the log.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...any) {
	code, msg := statusFor(err)

	fields := append([]any{"err", err, "request_id", c.GetString(ctxRequestIDKey)}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}

	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "route", c.FullPath(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}
