package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emotion-detection-service/internal/classifier"
	"github.com/iliyamo/emotion-detection-service/internal/config"
	"github.com/iliyamo/emotion-detection-service/internal/middleware"
	"github.com/iliyamo/emotion-detection-service/internal/model"
	"github.com/iliyamo/emotion-detection-service/internal/queue"
	"github.com/iliyamo/emotion-detection-service/internal/repository"
)

// Classifier is the external text→emotion capability. *classifier.Client
// satisfies it; tests stub it out.
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Result, error)
}

// PredictionStore is the narrow view of the prediction repository the
// handlers need. *repository.PredictionRepo satisfies it.
type PredictionStore interface {
	Record(ctx context.Context, username, text, emotion string, confidence float64) error
	Statistics(ctx context.Context) (model.StatisticsSnapshot, error)
	History(ctx context.Context, username string) ([]model.HistoryEntry, error)
}

// FineTunePublisher hands a fine-tune request to the task queue. The only
// contract is "accepted for later execution"; no result ever flows back.
type FineTunePublisher interface {
	PublishFineTuneRequested(ctx context.Context, ev queue.FineTuneRequestedEvent) error
}

// PredictionHandler bundles dependencies for the predict, statistics,
// history and fine-tune endpoints. All of them run behind BearerAuth.
type PredictionHandler struct {
	Cfg         config.Config
	Predictions PredictionStore
	Classifier  Classifier
	Publisher   FineTunePublisher // nil when no queue is configured
}

func NewPredictionHandler(cfg config.Config, p PredictionStore, cl Classifier, pub FineTunePublisher) *PredictionHandler {
	return &PredictionHandler{Cfg: cfg, Predictions: p, Classifier: cl, Publisher: pub}
}

type predictReq struct {
	Text string `json:"text"`
}

type predictResp struct {
	Username   string  `json:"username"`
	Text       string  `json:"text"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Predict classifies the submitted text and records the outcome. The
// classification call is bounded by ModelTimeout; when it fails or times
// out the request ends as 502 and nothing is written, so a failed call
// can never leave an orphaned record behind.
func (h *PredictionHandler) Predict(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "missing identity"})
	}

	var req predictReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	clCtx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.ModelTimeout)
	defer cancel()

	res, err := h.Classifier.Classify(clCtx, req.Text)
	if err != nil {
		// Any classifier failure is an upstream problem as far as the
		// caller is concerned; the detail stays in our logs, not the body.
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "classification service unavailable"})
	}

	ctx, cancel2 := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel2()

	if err := h.Predictions.Record(ctx, username, req.Text, res.Emotion, res.Confidence); err != nil {
		if err == repository.ErrInvalidConfidence {
			// The classifier answered with a nonsense confidence; treat it
			// like any other upstream failure and persist nothing.
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "classification service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save prediction failed"})
	}

	return c.JSON(http.StatusOK, predictResp{
		Username:   username,
		Text:       req.Text,
		Emotion:    res.Emotion,
		Confidence: res.Confidence,
	})
}

// Statistics returns aggregate counts over every prediction ever made.
// The token gates access but the result is global, not per-user.
func (h *PredictionHandler) Statistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	snap, err := h.Predictions.Statistics(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load statistics failed"})
	}
	return c.JSON(http.StatusOK, snap)
}

// History returns the caller's own predictions, newest first. A user with
// no predictions gets an empty list, not an error.
func (h *PredictionHandler) History(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "missing identity"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Predictions.History(ctx, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	return c.JSON(http.StatusOK, entries)
}

// FineTune queues a model fine-tuning run. The response only acknowledges
// acceptance; execution happens later in the worker and no result is
// reported back through this API.
func (h *PredictionHandler) FineTune(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "missing identity"})
	}
	if h.Publisher == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "fine-tune queue unavailable"})
	}

	ev := queue.FineTuneRequestedEvent{
		Username:    username,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Publisher.PublishFineTuneRequested(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "fine-tune queue unavailable"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "fine-tune request accepted"})
}
