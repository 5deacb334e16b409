package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"paddock/internal/availability/service"
	apperrors "paddock/pkg/errors"
	httputil "paddock/pkg/http"
	"paddock/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// GetView serves the calendar for a window. arena_id is optional; without it
// the view spans all arenas.
func (h *AvailabilityHandler) GetView(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := httputil.ExtractTimeParam(r, "from")
	if err != nil {
		h.writeError(w, "GetView", err)
		return
	}
	to, err := httputil.ExtractTimeParam(r, "to")
	if err != nil {
		h.writeError(w, "GetView", err)
		return
	}
	if from == nil || to == nil {
		h.writeError(w, "GetView", apperrors.InvalidInput("'from' and 'to' query parameters are required"))
		return
	}

	view, err := h.service.Build(r.Context(), r.URL.Query().Get("arena_id"), *from, *to)
	if err != nil {
		h.writeError(w, "GetView", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetView", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.GetView)
}
