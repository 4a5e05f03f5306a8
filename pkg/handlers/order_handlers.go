package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/middleware"
	apimodels "github.com/vunguyen00/Netflix/pkg/models"
	"github.com/vunguyen00/Netflix/pkg/response"
)

// BuyOrder purchases a plan with the caller's balance
// @Summary Buy a plan
// @Description Debits the caller's balance and assigns the oldest available account
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body apimodels.BuyRequest true "Plan to buy"
// @Success 201 {object} apimodels.OrderResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 402 {object} apimodels.ErrorResponse "Insufficient balance"
// @Failure 409 {object} apimodels.ErrorResponse "No account available"
// @Router /orders/buy [post]
func (h *HandlerService) BuyOrder(c *gin.Context) {
	var req apimodels.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}
	plan, err := models.PlanForDays(req.PlanDays)
	if err != nil {
		HandleError(c, NewBadRequestError("Unknown plan", err))
		return
	}

	order, err := h.store.Purchase(c.Request.Context(), middleware.CustomerID(c), plan)
	if err != nil {
		HandleError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("Order purchased",
		zap.String("order_id", order.ID),
		zap.Int("plan_days", plan.Days))
	response.WriteJSONResponse(c, http.StatusCreated, toOrderResponse(order))
}

// ListOrders returns the caller's orders
// @Summary List my orders
// @Description Returns the caller's orders, newest first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} apimodels.OrderResponse
// @Router /orders [get]
func (h *HandlerService) ListOrders(c *gin.Context) {
	orders, err := h.store.Orders.ListByCustomer(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := make([]apimodels.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	response.WriteJSONResponse(c, http.StatusOK, resp)
}

// GetOrder returns one order with its history
// @Summary Get order
// @Description Returns an order of the caller with its history
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} apimodels.OrderResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /orders/{id} [get]
func (h *HandlerService) GetOrder(c *gin.Context) {
	order, err := h.ownedOrder(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toOrderResponse(order))
}

// ExtendOrder renews an order
// @Summary Extend order
// @Description Debits the plan price and pushes the expiry forward
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body apimodels.ExtendRequest true "Plan to add"
// @Success 200 {object} apimodels.OrderResponse
// @Failure 402 {object} apimodels.ErrorResponse "Insufficient balance"
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /orders/{id}/extend [post]
func (h *HandlerService) ExtendOrder(c *gin.Context) {
	var req apimodels.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}
	plan, err := models.PlanForDays(req.PlanDays)
	if err != nil {
		HandleError(c, NewBadRequestError("Unknown plan", err))
		return
	}

	order, err := h.ownedOrder(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	order, err = h.store.Extend(c.Request.Context(), order.CustomerID, order.ID, plan)
	if err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toOrderResponse(order))
}

// UpdateOrderExpiration sets an order's expiry
// @Summary Change order expiration (admin)
// @Description Moves the expiry and records the change in the order history. Paid and expired orders take the status matching the new date.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body apimodels.ExpirationRequest true "New expiry"
// @Success 200 {object} apimodels.OrderResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /admin/orders/{id}/expiration [patch]
func (h *HandlerService) UpdateOrderExpiration(c *gin.Context) {
	var req apimodels.ExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}

	order, err := h.store.Orders.UpdateExpiration(c.Request.Context(), c.Param("id"), req.ExpiresAt)
	if err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toOrderResponse(order))
}
