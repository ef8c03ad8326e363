package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arin-r/splitlyx/internal/group"
	"github.com/arin-r/splitlyx/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}/repayments", h.ListRepayments)
	r.Get("/group/{groupId}/balances", h.GetBalances)
	r.Get("/group/{groupId}/transactions", h.ListTransactions)
	r.Post("/group/{groupId}/transactions", h.RecordTransaction)

	return r
}

// ListRepayments handles GET /settlements/group/{groupId}/repayments
// @Summary      List suggested repayments
// @Description  Get the minimal set of pairwise repayments that settles the group, optionally filtered to one member
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        user_id query int false "Only repayments involving this member"
// @Success      200 {object} response.APIResponse{data=[]RepaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/repayments [get]
func (h *Handler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var repayments []*Repayment
	if userIDStr := r.URL.Query().Get("user_id"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid user ID")
			return
		}
		repayments, err = h.service.GetSuggestedRepaymentsForMember(r.Context(), groupID, userID)
		if err != nil {
			response.InternalError(w, "Failed to list repayments")
			return
		}
	} else {
		repayments, err = h.service.GetSuggestedRepayments(r.Context(), groupID)
		if err != nil {
			response.InternalError(w, "Failed to list repayments")
			return
		}
	}

	resp := make([]*RepaymentResponse, len(repayments))
	for i, rep := range repayments {
		resp[i] = rep.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetBalances handles GET /settlements/group/{groupId}/balances
// @Summary      Get group balances
// @Description  Get each member's signed balance derived from the suggested repayments (positive = owes, negative = is owed)
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/balances [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GetGroupBalances(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to get balances")
		return
	}

	resp := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = b.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// ListTransactions handles GET /settlements/group/{groupId}/transactions
// @Summary      List recorded transactions
// @Description  Get the group's direct-payment log, newest first
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]TransactionResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/transactions [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	transactions, err := h.service.GetRecordedTransactions(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to list transactions")
		return
	}

	resp := make([]*TransactionResponse, len(transactions))
	for i, tr := range transactions {
		resp[i] = tr.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// RecordTransaction handles POST /settlements/group/{groupId}/transactions
// @Summary      Record a direct transaction
// @Description  Record a direct payment between two members and recompute the group's suggested repayments
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        request body RecordTransactionRequest true "Transaction to record"
// @Success      201 {object} response.APIResponse{data=TransactionResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/transactions [post]
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	recorded, err := h.service.RecordTransaction(r.Context(), groupID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfTransaction), errors.Is(err, ErrMemberNotInLedger):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, group.ErrGroupNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to record transaction")
		}
		return
	}

	response.JSON(w, http.StatusCreated, recorded.ToResponse())
}
