package group

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arin-r/splitlyx/pkg/middleware"
	"github.com/arin-r/splitlyx/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Description  Create a group with the listed members; the authenticated user is added automatically
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      422 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBlankName),
			errors.Is(err, ErrDuplicateMembers),
			errors.Is(err, ErrTooFewMembers),
			errors.Is(err, ErrUnknownMembers):
			response.UnprocessableEntity(w, err.Error())
		default:
			response.InternalError(w, "Failed to create group")
		}
		return
	}

	response.JSON(w, http.StatusCreated, g.ToResponse())
}

// ListMine handles GET /groups
// @Summary      List my groups
// @Description  Get all groups the authenticated user belongs to
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groups, err := h.service.ListByUserID(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list groups")
		return
	}

	resp := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = g.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /groups/{id}
// @Summary      Get a group
// @Description  Get a group with its member roster
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get group")
		return
	}

	resp := g.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /groups/{id}
// @Summary      Delete a group
// @Description  Delete a group along with its expenses, ledger, transactions and repayments
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete group")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}
