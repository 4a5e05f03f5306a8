package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/logger"
	apimodels "github.com/vunguyen00/Netflix/pkg/models"
	"github.com/vunguyen00/Netflix/pkg/response"
	"github.com/vunguyen00/Netflix/pkg/store"
)

// ListAccounts lists the available pool
// @Summary List pool accounts (admin)
// @Description Returns available accounts, newest first, without their secrets
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of accounts" default(100)
// @Success 200 {object} apimodels.AccountListResponse
// @Router /admin/accounts [get]
func (h *HandlerService) ListAccounts(c *gin.Context) {
	limit, err := parseLimit(c, 100, 1000)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	creds, err := h.store.Credentials.ListAvailable(ctx, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	available, err := h.store.Credentials.CountAvailable(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := apimodels.AccountListResponse{
		Accounts:  make([]apimodels.AccountResponse, 0, len(creds)),
		Available: available,
	}
	for i := range creds {
		resp.Accounts = append(resp.Accounts, toAccountResponse(&creds[i]))
	}
	response.WriteJSONResponse(c, http.StatusOK, resp)
}

// CreateAccount adds one account to the pool
// @Summary Add pool account (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body apimodels.AccountRequest true "Account"
// @Success 201 {object} apimodels.AccountResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse "Username already exists"
// @Router /admin/accounts [post]
func (h *HandlerService) CreateAccount(c *gin.Context) {
	var req apimodels.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}

	cred := toCredential(req)
	if err := h.store.Credentials.Create(c.Request.Context(), &cred); err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusCreated, toAccountResponse(&cred))
}

// ImportAccounts adds many accounts, skipping known usernames
// @Summary Bulk import pool accounts (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body apimodels.BulkImportRequest true "Accounts"
// @Success 200 {object} apimodels.BulkImportResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Router /admin/accounts/bulk [post]
func (h *HandlerService) ImportAccounts(c *gin.Context) {
	var req apimodels.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}
	if len(req.Accounts) == 0 {
		HandleError(c, NewBadRequestError("accounts cannot be empty", nil))
		return
	}

	creds := make([]models.Credential, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		creds = append(creds, toCredential(a))
	}

	result, err := h.store.Credentials.Import(c.Request.Context(), creds)
	if err != nil {
		HandleError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("Accounts imported",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	response.WriteJSONResponse(c, http.StatusOK, apimodels.BulkImportResponse{
		Created: result.Created,
		Skipped: result.Skipped,
	})
}

// GetAccount returns one account with its secrets
// @Summary Get account (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} apimodels.AccountDetailResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /admin/accounts/{id} [get]
func (h *HandlerService) GetAccount(c *gin.Context) {
	cred, err := h.store.Credentials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toAccountDetailResponse(cred))
}

// UpdateAccount changes an account's login or dates
// @Summary Update account (admin)
// @Description Only the fields present in the body change
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body apimodels.AccountUpdateRequest true "Fields to change"
// @Success 200 {object} apimodels.AccountDetailResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse "Username already exists"
// @Router /admin/accounts/{id} [put]
func (h *HandlerService) UpdateAccount(c *gin.Context) {
	var req apimodels.AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}
	if req.Username != nil && *req.Username == "" {
		HandleError(c, NewBadRequestError("username cannot be empty", nil))
		return
	}

	cred, err := h.store.Credentials.Update(c.Request.Context(), c.Param("id"), store.CredentialUpdate{
		Username:       req.Username,
		Password:       req.Password,
		Cookies:        req.Cookies,
		PurchaseDate:   req.PurchaseDate,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toAccountDetailResponse(cred))
}

// SellAccount assigns a pool account to a customer
// @Summary Sell account (admin)
// @Description Creates a paid order for the customer with this account, without charging their balance
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body apimodels.SellRequest true "Buyer and plan"
// @Success 201 {object} apimodels.OrderResponse
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse "Account is not available"
// @Router /admin/accounts/{id}/sell [post]
func (h *HandlerService) SellAccount(c *gin.Context) {
	var req apimodels.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, NewBadRequestError("Invalid request body", err))
		return
	}
	plan, err := models.PlanForDays(req.PlanDays)
	if err != nil {
		HandleError(c, NewBadRequestError("Unknown plan", err))
		return
	}

	ctx := c.Request.Context()
	order, err := h.store.Sell(ctx, c.Param("id"), req.CustomerID, plan)
	if err != nil {
		HandleError(c, err)
		return
	}

	logger.FromContext(ctx).Info("Account sold",
		zap.String("order_id", order.ID),
		zap.String("customer_id", req.CustomerID),
		zap.Int("plan_days", plan.Days))
	response.WriteJSONResponse(c, http.StatusCreated, toOrderResponse(order))
}

// DeleteAccount removes an account from the pool
// @Summary Delete pool account (admin)
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @Router /admin/accounts/{id} [delete]
func (h *HandlerService) DeleteAccount(c *gin.Context) {
	if err := h.store.Credentials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListWarrantyRuns returns audited warranty runs
// @Summary List warranty runs (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param order_id query string false "Only runs of this order"
// @Param outcome query string false "Only runs with this outcome"
// @Param limit query int false "Maximum number of runs" default(100)
// @Success 200 {array} apimodels.WarrantyRunResponse
// @Router /admin/warranty-runs [get]
func (h *HandlerService) ListWarrantyRuns(c *gin.Context) {
	limit, err := parseLimit(c, 100, 500)
	if err != nil {
		HandleError(c, err)
		return
	}

	runs, err := h.store.Runs.List(c.Request.Context(), store.RunFilter{
		OrderID: c.Query("order_id"),
		Outcome: c.Query("outcome"),
		Limit:   limit,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := make([]apimodels.WarrantyRunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, toRunResponse(&runs[i]))
	}
	response.WriteJSONResponse(c, http.StatusOK, resp)
}
