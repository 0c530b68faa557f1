package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/auth"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/ai"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/assistant"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/tts"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/session"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/speech"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/worker"
)

// Asker answers visitor questions. Satisfied by the assistant service; tests
// substitute a stub.
type Asker interface {
	Ask(ctx context.Context, sessionID, question string) (*assistant.Answer, error)
	AskCourt(ctx context.Context, sessionID, question string) (*assistant.Answer, error)
	History(sessionID string) ([]models.Message, error)
	EndSession(sessionID string)
}

// Synthesizer produces audio for a reply.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*tts.Audio, error)
}

// RateLimiter counts hits per key inside a rolling window. Satisfied by the
// redis wrapper.
type RateLimiter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Handler wires HTTP routes to the assistant, catalog, and auth services.
type Handler struct {
	assistant  Asker
	tts        Synthesizer
	auth       *auth.Service
	deptTokens *auth.DepartmentTokens
	catalog    *catalog.Service
	limiter    RateLimiter
	askRate    int
}

// NewHandler constructs a Handler. limiter may be nil to disable rate
// limiting (tests, single-box deployments without redis).
func NewHandler(asker Asker, synth Synthesizer, authSvc *auth.Service, deptTokens *auth.DepartmentTokens, cat *catalog.Service, limiter RateLimiter, askRate int) *Handler {
	if askRate <= 0 {
		askRate = 20
	}
	return &Handler{
		assistant:  asker,
		tts:        synth,
		auth:       authSvc,
		deptTokens: deptTokens,
		catalog:    cat,
		limiter:    limiter,
		askRate:    askRate,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	rateMW := h.rateLimit()
	api.POST("/ask", rateMW, h.ask)
	api.POST("/court/ask", rateMW, h.askCourt)
	api.POST("/tts", rateMW, h.synthesize)
	api.GET("/sessions/:session_id/messages", h.sessionMessages)
	api.DELETE("/sessions/:session_id", h.endSession)

	// Read-only catalog endpoints for the kiosk screens.
	api.GET("/notices", h.publicNotices)
	api.GET("/events", h.publicEvents)
	api.GET("/courses", h.publicCourses)

	h.registerAdminRoutes(api)
	h.registerHeadRoutes(api)
	h.registerDepartmentRoutes(api)
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	answer, err := h.assistant.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.askError(c, req.SessionID, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *Handler) askCourt(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	answer, err := h.assistant.AskCourt(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.askError(c, req.SessionID, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

const apologyReply = "Sorry, I am unable to answer right now. Please try again in a moment or ask at the front desk."

func (h *Handler) askError(c *gin.Context, sessionID string, err error) {
	switch {
	case errors.Is(err, worker.ErrDispatcherBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "server is busy, please retry"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	case errors.Is(err, ai.ErrNoProvider):
		// Every provider failed. The kiosk still speaks an apology instead
		// of showing an error screen.
		zap.L().Error("all providers failed", zap.Error(err))
		c.JSON(http.StatusOK, assistant.Answer{
			SessionID:  sessionID,
			Reply:      apologyReply,
			SpeechText: apologyReply,
			Source:     "assistant",
		})
	default:
		zap.L().Error("ask failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable, please retry"})
	}
}

type ttsRequest struct {
	Text string `json:"text"`
}

func (h *Handler) synthesize(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// Raw client text goes through the same speech rules as assistant
	// replies; normalization is idempotent so pre-normalized text is safe.
	audio, err := h.tts.Synthesize(c.Request.Context(), speech.Normalize(req.Text))
	if err != nil {
		if errors.Is(err, tts.ErrNoVendor) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "speech synthesis is unavailable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("X-TTS-Vendor", audio.Vendor)
	c.Data(http.StatusOK, audio.ContentType, audio.Data)
}

func (h *Handler) sessionMessages(c *gin.Context) {
	history, err := h.assistant.History(c.Param("session_id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

func (h *Handler) endSession(c *gin.Context) {
	h.assistant.EndSession(c.Param("session_id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) publicNotices(c *gin.Context) {
	rows, err := h.catalog.ListNotices(c.Request.Context(), true, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": emptyIfNil(rows)})
}

func (h *Handler) publicEvents(c *gin.Context) {
	rows, err := h.catalog.ListEvents(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": emptyIfNil(rows)})
}

func (h *Handler) publicCourses(c *gin.Context) {
	rows, err := h.catalog.ListCourses(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": emptyIfNil(rows)})
}

// rateLimit caps voice endpoints per client IP so one kiosk visitor cannot
// burn the model quota.
func (h *Handler) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}
		key := "ask_rate:" + c.ClientIP()
		count, err := h.limiter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			// Redis being down should not take the kiosk with it.
			zap.L().Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if count > int64(h.askRate) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}

func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
