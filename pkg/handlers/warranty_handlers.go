package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
	apimodels "github.com/vunguyen00/Netflix/pkg/models"
	"github.com/vunguyen00/Netflix/pkg/response"
	"github.com/vunguyen00/Netflix/pkg/warranty"
)

// runFunc is Orchestrator.Run or Orchestrator.Switch
type runFunc func(ctx context.Context, orderID string, sink warranty.Sink) warranty.Result

// StreamWarranty runs a warranty claim and streams its progress
// @Summary Warranty claim (stream)
// @Description Checks the order's account and replaces it if dead. Progress is streamed as server-sent events: "progress" events carry {message}, a final "done" event carries the outcome. The token may be passed as a query parameter for EventSource clients.
// @Tags Warranty
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param token query string false "JWT for EventSource clients"
// @Success 200 {object} apimodels.WarrantyResponse "done event payload"
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 429 {object} apimodels.ErrorResponse
// @Router /orders/{id}/warranty [get]
func (h *HandlerService) StreamWarranty(c *gin.Context) {
	order, err := h.ownedOrder(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.stream(c, order.ID, h.warranty.Run)
}

// RunWarranty runs a warranty claim and returns its outcome
// @Summary Warranty claim
// @Description Checks the order's account and replaces it if dead, then returns the outcome with every progress step
// @Tags Warranty
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} apimodels.WarrantyResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse "Run already in progress or order not active"
// @Failure 429 {object} apimodels.ErrorResponse
// @Router /orders/{id}/warranty [post]
func (h *HandlerService) RunWarranty(c *gin.Context) {
	order, err := h.ownedOrder(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx, cancel := h.runContext(c)
	defer cancel()

	res := h.warranty.Run(ctx, order.ID, warranty.Discard)
	if errors.Is(res.Err, warranty.ErrRunInProgress) || errors.Is(res.Err, warranty.ErrOrderInactive) {
		HandleError(c, res.Err)
		return
	}

	body := toWarrantyResponse(res)
	body.Steps = res.Steps
	response.WriteJSONResponse(c, http.StatusOK, body)
}

// SwitchAccount replaces an order's account without checking it
// @Summary Switch account (admin)
// @Description Gives the order a fresh account from the pool whether or not the current one works. Streams progress like the warranty endpoint.
// @Tags Admin
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} apimodels.WarrantyResponse "done event payload"
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /admin/orders/{id}/switch [post]
func (h *HandlerService) SwitchAccount(c *gin.Context) {
	order, err := h.ownedOrder(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.stream(c, order.ID, h.warranty.Switch)
}

// runContext detaches the run from the request so a dropped client never
// leaves a candidate half-consumed; the run is bounded by its own timeout.
func (h *HandlerService) runContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.config.Warranty.RunTimeout())
}

func (h *HandlerService) stream(c *gin.Context, orderID string, run runFunc) {
	log := logger.FromContext(c.Request.Context()).With(zap.String("order_id", orderID))
	sink := warranty.NewChannelSink(h.config.Warranty.ProgressBufferSize)
	ctx, cancel := h.runContext(c)

	done := make(chan warranty.Result, 1)
	go func() {
		defer cancel()
		res := run(ctx, orderID, sink)
		sink.Close()
		done <- res
	}()

	response.StartEventStream(c)

	gone := c.Request.Context().Done()
	msgs := sink.Messages()
	for msgs != nil {
		select {
		case msg, ok := <-msgs:
			if !ok {
				msgs = nil
				continue
			}
			response.WriteEvent(c, response.EventProgress, apimodels.ProgressEvent{Message: msg})
		case <-gone:
			log.Info("Client disconnected, warranty run continues")
			return
		}
	}

	res := <-done
	if d := sink.Dropped(); d > 0 {
		log.Warn("Progress messages dropped", zap.Int("dropped", d))
	}
	response.WriteEvent(c, response.EventDone, toWarrantyResponse(res))
}

func toWarrantyResponse(res warranty.Result) apimodels.WarrantyResponse {
	return apimodels.WarrantyResponse{
		Outcome:     string(res.Outcome),
		Message:     res.Message,
		NewUsername: res.NewIdentifier,
	}
}
