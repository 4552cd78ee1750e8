// Package server exposes session runs over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mad-life/internal/config"
	"mad-life/internal/session"
	"mad-life/pkg/history"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxSessionID = "session_id"
	ctxRequestID = "request_id"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateRequest is the body of POST /v1/life. Zero values use the session's
// remembered dimensions.
type CreateRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Handlers serves the life API.
type Handlers struct {
	reg    *session.Registry
	limits config.LifeConfig
	cookie string
	logger *slog.Logger
}

// NewHandlers wires handlers to a registry.
func NewHandlers(reg *session.Registry, limits config.LifeConfig, cookie string, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{reg: reg, limits: limits, cookie: cookie, logger: logger}
}

// RegisterRoutes adds the life routes to r.
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/healthz", h.HandleHealth)

	life := r.Group("/v1/life", h.sessionMiddleware)
	life.POST("", h.HandleCreate)
	life.GET("/status", h.HandleStatus)
	life.GET("/generations/:serial", h.HandleGeneration)
	life.GET("/generations/:serial/text", h.HandleGenerationText)
	life.GET("/generations/:serial/raw", h.HandleGenerationRaw)
}

// sessionMiddleware resolves the session cookie, issuing a new session when
// the cookie is missing or no longer known.
func (h *Handlers) sessionMiddleware(c *gin.Context) {
	existing, _ := c.Cookie(h.cookie)
	id, created := h.reg.Ensure(c.Request.Context(), existing)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie, id, 0, "/", "", false, true)
	}
	c.Set(ctxSessionID, id)
	c.Next()
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return h.logger.With("request_id", c.GetString(ctxRequestID), "handler", handler,
		"session_id", c.GetString(ctxSessionID))
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Sessions: h.reg.Len()})
}

// HandleCreate handles POST /v1/life.
func (h *Handlers) HandleCreate(c *gin.Context) {
	logger := h.requestLogger(c, "HandleCreate")

	var req CreateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
			return
		}
	}
	if req.Width < 0 || req.Height < 0 || req.Width > h.limits.MaxWidth || req.Height > h.limits.MaxHeight {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Width and height must be between 1 and " +
				strconv.Itoa(h.limits.MaxWidth) + "x" + strconv.Itoa(h.limits.MaxHeight),
			Code: "INVALID_DIMENSION",
		})
		return
	}

	snap, err := h.reg.NewLife(c.Request.Context(), c.GetString(ctxSessionID), req.Width, req.Height)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, snap.Frame())
}

// HandleStatus handles GET /v1/life/status.
func (h *Handlers) HandleStatus(c *gin.Context) {
	st, err := h.reg.Status(c.Request.Context(), c.GetString(ctxSessionID))
	if err != nil {
		h.fail(c, h.requestLogger(c, "HandleStatus"), err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// HandleGeneration handles GET /v1/life/generations/:serial.
func (h *Handlers) HandleGeneration(c *gin.Context) {
	snap, ok := h.generation(c, "HandleGeneration")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Frame())
}

// HandleGenerationText handles GET /v1/life/generations/:serial/text.
func (h *Handlers) HandleGenerationText(c *gin.Context) {
	snap, ok := h.generation(c, "HandleGenerationText")
	if !ok {
		return
	}
	c.String(http.StatusOK, snap.Frame().Text())
}

// HandleGenerationRaw handles GET /v1/life/generations/:serial/raw, the
// one-bit-per-cell dump of the current cells.
func (h *Handlers) HandleGenerationRaw(c *gin.Context) {
	snap, ok := h.generation(c, "HandleGenerationRaw")
	if !ok {
		return
	}
	g := snap.Generation
	c.Header("X-Life-Serial", strconv.Itoa(g.Serial()))
	c.Header("X-Life-Width", strconv.Itoa(g.Width()))
	c.Header("X-Life-Height", strconv.Itoa(g.Height()))
	c.Header("X-Life-Over", strconv.FormatBool(snap.Over))
	c.Data(http.StatusOK, "application/octet-stream", g.Packed())
}

func (h *Handlers) generation(c *gin.Context, handler string) (session.Snapshot, bool) {
	logger := h.requestLogger(c, handler)
	serial, err := strconv.Atoi(c.Param("serial"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Serial must be an integer", Code: "INVALID_SERIAL"})
		return session.Snapshot{}, false
	}
	snap, err := h.reg.Generation(c.Request.Context(), c.GetString(ctxSessionID), serial, h.limits.MaxAdvance)
	if err != nil {
		h.fail(c, logger, err)
		return session.Snapshot{}, false
	}
	return snap, true
}

// fail maps core errors to HTTP responses.
func (h *Handlers) fail(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, history.ErrInvalidDimension):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_DIMENSION"})
	case errors.Is(err, history.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_SERIAL"})
	case errors.Is(err, history.ErrNotInitialized):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Start a new life first", Code: "NOT_INITIALIZED"})
	case errors.Is(err, session.ErrTooFar):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "SERIAL_TOO_FAR"})
	case errors.Is(err, session.ErrUnknownSession):
		c.JSON(http.StatusGone, ErrorResponse{Error: "Session expired", Code: "UNKNOWN_SESSION"})
	default:
		logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error", Code: "INTERNAL"})
	}
}

// requestID tags each request with X-Request-ID, generating one when absent.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Header("X-Request-ID", id)
	c.Set(ctxRequestID, id)
	c.Next()
}
