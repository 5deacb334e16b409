package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"paddock/internal/bookings/service"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/timerange"
)

// Actor identity comes from gateway-injected headers; this service does not
// authenticate.
const (
	HeaderActorID    = "X-Actor-ID"
	HeaderActorRole  = "X-Actor-Role"
	HeaderGuestEmail = "X-Guest-Email"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
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
		ID:         r.Header.Get(HeaderActorID),
		Role:       role,
		GuestEmail: r.Header.Get(HeaderGuestEmail),
	}
}

type createResponse struct {
	Booking     *model.Booking `json:"booking"`
	CancelToken string         `json:"cancel_token,omitempty"`
}

type cancelByTokenRequest struct {
	Token string `json:"token"`
}

type conflictResponse struct {
	Conflict bool `json:"conflict"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, err := h.service.Create(r.Context(), actorFromRequest(r), &booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, createResponse{Booking: &booking, CancelToken: token}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
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

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Confirm(r.Context(), actorFromRequest(r), ps.ByName("id")); err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), actorFromRequest(r), ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) CancelByToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelByTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		h.writeJSON(w, "CancelByToken", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.CancelByToken(r.Context(), req.Token); err != nil {
		h.writeError(w, "CancelByToken", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	arenaID := r.URL.Query().Get("arena_id")
	if arenaID == "" {
		h.writeJSON(w, "Search", http.StatusBadRequest, httputil.ErrorResponse{Error: "'arena_id' query parameter is required"})
		return
	}

	startTime, err := httputil.ExtractTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	endTime, err := httputil.ExtractTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, total, err := h.service.SearchByArena(r.Context(), arenaID, startTime, endTime, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	arenaID := r.URL.Query().Get("arena_id")
	if arenaID == "" {
		h.writeJSON(w, "CheckConflict", http.StatusBadRequest, httputil.ErrorResponse{Error: "'arena_id' query parameter is required"})
		return
	}

	startTime, err := httputil.ExtractTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}
	endTime, err := httputil.ExtractTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}
	if startTime == nil || endTime == nil {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("'start_time' and 'end_time' query parameters are required"))
		return
	}

	rng, err := timerange.New(*startTime, *endTime)
	if err != nil {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("end_time must be after start_time"))
		return
	}

	conflict, err := h.service.WouldConflict(r.Context(), arenaID, rng, r.URL.Query().Get("exclude_id"))
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}

	if err := httputil.WriteSuccess(w, conflictResponse{Conflict: conflict}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckConflict", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.POST("/api/v1/bookings/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/cancel", h.CancelByToken)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/conflict", h.CheckConflict)
}
