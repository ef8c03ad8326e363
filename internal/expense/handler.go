package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arin-r/splitlyx/internal/group"
	"github.com/arin-r/splitlyx/internal/settlement"
	"github.com/arin-r/splitlyx/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Create an expense from explicit contributions; the group's ledger and suggested repayments are reworked atomically
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoContributions),
			errors.Is(err, ErrUnbalancedTotals),
			errors.Is(err, ErrZeroTotal):
			response.UnprocessableEntity(w, err.Error())
		case errors.Is(err, group.ErrGroupNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to create expense")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense
// @Description  Get an expense with its contributions
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	resp := result.Expense.ToResponse()
	resp.Contributions = make([]*ContributionResponse, len(result.Contributions))
	for i, c := range result.Contributions {
		resp.Contributions[i] = c.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Delete an expense and subtract its contributions from the group's ledger; repayments are recomputed
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        group_id query int true "Group the expense belongs to"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	groupID, err := strconv.ParseInt(r.URL.Query().Get("group_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, groupID); err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, settlement.ErrLedgerCorrupted):
			response.InternalError(w, err.Error())
		default:
			response.InternalError(w, "Failed to delete expense")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Description  Get a paginated list of the group's expenses, newest first
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, perPage = response.NormalizePagination(page, perPage)

	expenses, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}

	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	response.JSONWithMeta(w, http.StatusOK, resp, meta)
}
