// Package server exposes the proxy over HTTP: GET /{modId}.
package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"curse-update-proxy/metrics"
	"curse-update-proxy/proxy"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxSafeInteger = 1<<53 - 1

var validate = validator.New()

const (
	msgUnauthorized = "You are not authorized to use this service."
	msgInternal     = "Internal Server Error"
	msgNotFound     = "Not Found"
)

// ModIDError is a modId path parameter that failed validation.
type ModIDError struct {
	Message string
}

func (e *ModIDError) Error() string { return e.Message }

// parseModID accepts a positive integer. Failures use joi's number wording
// so existing clients keep matching them.
func parseModID(raw string) (int, error) {
	if err := validate.Var(raw, "required,numeric"); err != nil {
		return 0, &ModIDError{Message: `"modId" must be a number`}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, &ModIDError{Message: `"modId" must be a number`}
	}
	if f <= 0 {
		return 0, &ModIDError{Message: `"modId" must be a positive number`}
	}
	if f != math.Trunc(f) {
		return 0, &ModIDError{Message: `"modId" must be an integer`}
	}
	if f > maxSafeInteger {
		return 0, &ModIDError{Message: `"modId" must be a safe number`}
	}
	return int(f), nil
}

func notFoundMessage(modID int) string {
	return fmt.Sprintf("No mod with id %d was found for game minecraft.", modID)
}

type handler struct {
	svc *proxy.Service
	log *zap.SugaredLogger
}

// NewRouter wires the proxy into a gin engine.
func NewRouter(svc *proxy.Service, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.HandleMethodNotAllowed = false

	r.Use(requestLogger(log), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorw("Panic while handling request", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}))

	h := &handler{svc: svc, log: log}
	r.GET("/:modId", h.getMod)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	})
	return r
}

func (h *handler) getMod(c *gin.Context) {
	modID, err := parseModID(c.Param("modId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Build(c.Request.Context(), modID)
	switch {
	case errors.Is(err, proxy.ErrModNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(modID)})
		return
	case errors.Is(err, proxy.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
		return
	case err != nil:
		h.log.Errorw("Failed to build update document", zap.Int("mod_id", modID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, proxy.Document(res))
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		metrics.RequestCounter.WithLabelValues(strconv.Itoa(status)).Inc()
		metrics.RequestDuration.Observe(elapsed.Seconds())

		log.Infow("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		)
	}
}
