package fiber

import (
	"context"
	"errors"
	"net/http"

	aggdomain "event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/events/core/usecase"
	"event-aggregation-service/internal/logctx"

	"github.com/gofiber/fiber/v2"
)

type StoreEventUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventInput) error
	BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
}

// IngestObserver counts stored events.
type IngestObserver interface {
	AddEventsIngested(n int)
}

type EventHandler struct {
	storeUC  StoreEventUseCase
	observer IngestObserver
}

func NewEventHandler(storeUC StoreEventUseCase, observer IngestObserver) *EventHandler {
	return &EventHandler{storeUC: storeUC, observer: observer}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Stores a single timestamped value
// @Tags Events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event payload"
// @Success 201 {object} CreateEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	err := h.storeUC.Execute(c.UserContext(), toInput(req))
	if err != nil {
		return h.writeError(c, err)
	}

	h.ingested(1)
	return c.Status(http.StatusCreated).JSON(CreateEventResponse{
		Status: "created",
	})
}

// BulkCreateEvents godoc
// @Summary Bulk create events
// @Description Validates every event, then stores the whole list in one write
// @Tags Events
// @Accept json
// @Produce json
// @Param request body BulkCreateEventsRequest true "Bulk event payload"
// @Success 201 {object} BulkCreateEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) BulkCreateEvents(c *fiber.Ctx) error {
	var req BulkCreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Events) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "events_list_required",
		})
	}

	inputs := make([]usecase.StoreEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = toInput(e)
	}

	result, err := h.storeUC.BulkCreateEvents(
		c.UserContext(),
		usecase.BulkCreateEventsInput{Events: inputs},
	)
	if err != nil {
		return h.writeError(c, err)
	}

	h.ingested(result.Created)
	return c.Status(http.StatusCreated).JSON(BulkCreateEventsResponse{
		Created: result.Created,
	})
}

func (h *EventHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidEvent):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_event",
			Message: err.Error(),
		})
	case errors.Is(err, aggdomain.ErrStoreUnavailable):
		logger := logctx.FromContext(c.UserContext())
		logger.Error().Err(err).Msg("event write failed")
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "store_unavailable",
		})
	default:
		logger := logctx.FromContext(c.UserContext())
		logger.Error().Err(err).Msg("event write failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func (h *EventHandler) ingested(n int) {
	if h.observer != nil {
		h.observer.AddEventsIngested(n)
	}
}

func toInput(req CreateEventRequest) usecase.StoreEventInput {
	return usecase.StoreEventInput{Dt: req.Dt, Value: req.Value}
}
