package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/middleware"
	apimodels "github.com/vunguyen00/Netflix/pkg/models"
)

// ownedOrder loads the order named in the path. Orders of other customers
// are reported as missing.
func (h *HandlerService) ownedOrder(c *gin.Context) (*models.Order, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewBadRequestError("Order ID is required", nil)
	}

	order, err := h.store.Orders.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != middleware.CustomerID(c) && !middleware.IsAdmin(c) {
		return nil, NewNotFoundError("Resource not found", nil)
	}
	return order, nil
}

// parseLimit reads the limit query parameter
func parseLimit(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, NewBadRequestError("limit must be a positive integer", err)
	}
	if n > max {
		n = max
	}
	return n, nil
}

func toOrderResponse(o *models.Order) apimodels.OrderResponse {
	resp := apimodels.OrderResponse{
		ID:              o.ID,
		OrderCode:       o.OrderCode,
		Plan:            o.Plan,
		Duration:        o.Duration,
		Amount:          o.Amount,
		AccountEmail:    o.AccountEmail,
		AccountPassword: o.AccountPassword,
		Status:          string(o.Status),
		PurchaseDate:    o.PurchaseDate,
		ExpiresAt:       o.ExpiresAt,
	}
	for _, entry := range o.History {
		resp.History = append(resp.History, apimodels.OrderHistoryEntry{
			Message:   entry.Message,
			CreatedAt: entry.CreatedAt,
		})
	}
	return resp
}

func toAccountResponse(c *models.Credential) apimodels.AccountResponse {
	return apimodels.AccountResponse{
		ID:             c.ID,
		Username:       c.Username,
		Status:         string(c.Status),
		PurchaseDate:   c.PurchaseDate,
		ExpirationDate: c.ExpirationDate,
		CreatedAt:      c.CreatedAt,
	}
}

func toAccountDetailResponse(c *models.Credential) apimodels.AccountDetailResponse {
	return apimodels.AccountDetailResponse{
		AccountResponse: toAccountResponse(c),
		Password:        c.Password,
		Cookies:         c.Cookies,
		Phone:           c.Phone,
		AssignedAt:      c.AssignedAt,
	}
}

func toCredential(req apimodels.AccountRequest) models.Credential {
	return models.Credential{
		Username:       req.Username,
		Password:       req.Password,
		Cookies:        req.Cookies,
		PurchaseDate:   req.PurchaseDate,
		ExpirationDate: req.ExpirationDate,
	}
}

func toRunResponse(r *models.WarrantyRun) apimodels.WarrantyRunResponse {
	var steps []string
	if len(r.Steps) > 0 {
		if err := json.Unmarshal(r.Steps, &steps); err != nil {
			logger.Warn("Stored warranty run steps are unreadable", zap.String("run_id", r.ID), zap.Error(err))
		}
	}
	return apimodels.WarrantyRunResponse{
		ID:            r.ID,
		OrderID:       r.OrderID,
		Mode:          string(r.Mode),
		Outcome:       r.Outcome,
		NewIdentifier: r.NewIdentifier,
		Steps:         steps,
		Inspected:     r.Inspected,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		DurationMS:    r.Duration,
	}
}
