package fiber

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/usecase"
	"event-aggregation-service/internal/logctx"

	"github.com/gofiber/fiber/v2"
)

type AggregateUseCase interface {
	Execute(ctx context.Context, in usecase.AggregateInput) (*domain.AggregationResult, error)
}

// QueryObserver is told about every finished query.
type QueryObserver interface {
	ObserveQuery(groupType string, err error)
}

type AggregationHandler struct {
	uc           AggregateUseCase
	observer     QueryObserver
	queryTimeout time.Duration
}

type HandlerOption func(*AggregationHandler)

func WithQueryTimeout(d time.Duration) HandlerOption {
	return func(h *AggregationHandler) {
		h.queryTimeout = d
	}
}

func WithObserver(o QueryObserver) HandlerOption {
	return func(h *AggregationHandler) {
		h.observer = o
	}
}

func NewAggregationHandler(uc AggregateUseCase, opts ...HandlerOption) *AggregationHandler {
	h := &AggregationHandler{uc: uc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Aggregate godoc
// @Summary Aggregate event values into time buckets
// @Description Sums the value of every event per hour, day or month bucket between dt_from and dt_upto. Empty buckets are zero.
// @Tags Aggregation
// @Accept json
// @Produce json
// @Param request body AggregateRequest true "Aggregation query"
// @Success 200 {object} AggregateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /aggregate [post]
func (h *AggregationHandler) Aggregate(c *fiber.Ctx) error {
	res, err := h.run(c.UserContext(), c.Body())
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{
			Error:   domain.KindOf(err).String(),
			Message: replyFor(err),
		})
	}

	return c.Status(http.StatusOK).JSON(toResponse(res))
}

// Message godoc
// @Summary Answer a chat message carrying an aggregation query
// @Description The message text must be a JSON aggregation query. The reply text is either the serialized result or a human readable error.
// @Tags Aggregation
// @Accept json
// @Produce json
// @Param request body MessageRequest true "Incoming message"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /messages [post]
func (h *AggregationHandler) Message(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	res, err := h.run(c.UserContext(), []byte(req.Text))
	if err != nil {
		return c.Status(http.StatusOK).JSON(MessageResponse{Text: replyFor(err)})
	}

	text, err := json.Marshal(toResponse(res))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusOK).JSON(MessageResponse{Text: string(text)})
}

func (h *AggregationHandler) run(ctx context.Context, body []byte) (*domain.AggregationResult, error) {
	in, err := decodeQuery(body)
	if err != nil {
		h.observe(in.GroupType, err)
		return nil, err
	}

	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	res, err := h.uc.Execute(ctx, in)
	h.observe(in.GroupType, err)
	if err != nil {
		logger := logctx.FromContext(ctx)
		ev := logger.Info()
		if !domain.IsQueryError(err) {
			ev = logger.Error()
		}
		ev.Err(err).Str("kind", domain.KindOf(err).String()).Msg("aggregation failed")
		return nil, err
	}
	return res, nil
}

func (h *AggregationHandler) observe(groupType string, err error) {
	if h.observer != nil {
		h.observer.ObserveQuery(groupType, err)
	}
}

func toResponse(res *domain.AggregationResult) AggregateResponse {
	resp := AggregateResponse{
		Dataset: res.Dataset,
		Labels:  res.Labels,
	}
	if resp.Dataset == nil {
		resp.Dataset = []float64{}
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	return resp
}
