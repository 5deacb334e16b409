package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"paddock/internal/arenas/service"
	"paddock/pkg/config"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

type ArenaHandler struct {
	service service.ArenaService
	log     *logger.Logger
}

func NewArenaHandler(service service.ArenaService, log *logger.Logger) *ArenaHandler {
	return &ArenaHandler{
		service: service,
		log:     log,
	}
}

func actorFromRequest(r *http.Request) model.Actor {
	role := model.Role(r.Header.Get(HeaderActorRole))
	if role == "" {
		role = model.RoleGuest
	}
	return model.Actor{
		ID:   r.Header.Get(HeaderActorID),
		Role: role,
	}
}

func (h *ArenaHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var arena model.Arena
	if err := json.NewDecoder(r.Body).Decode(&arena); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.Create(r.Context(), actorFromRequest(r), &arena); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, arena); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ArenaHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	arena, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, arena); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ArenaHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	activeOnly := true
	if v := r.URL.Query().Get("include_inactive"); v != "" {
		include, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			h.writeJSON(w, "GetAll", http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid include_inactive parameter"})
			return
		}
		activeOnly = !include
	}

	arenas, total, err := h.service.GetAll(r.Context(), activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, arenas, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ArenaHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ArenaUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeJSON(w, "Update", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.Update(r.Context(), actorFromRequest(r), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ArenaHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Deactivate(r.Context(), actorFromRequest(r), ps.ByName("id")); err != nil {
		h.writeError(w, "Deactivate", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ArenaHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ArenaHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *ArenaHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/arenas", h.Create)
	router.GET("/api/v1/arenas", h.GetAll)
	router.GET("/api/v1/arenas/id/:id", h.GetByID)
	router.PATCH("/api/v1/arenas/id/:id", h.Update)
	router.POST("/api/v1/arenas/id/:id/deactivate", h.Deactivate)
}
