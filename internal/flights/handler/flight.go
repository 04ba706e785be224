package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"flightfinder/internal/flights/service"
	apperrors "flightfinder/pkg/errors"
	httputil "flightfinder/pkg/http"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/middleware"
	"flightfinder/pkg/model"
)

const searchDateLayout = "2006-01-02"

type FlightHandler struct {
	service service.FlightService
	guard   *middleware.Guard
	log     *logger.Logger
}

func NewFlightHandler(service service.FlightService, guard *middleware.Guard, log *logger.Logger) *FlightHandler {
	return &FlightHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

// Get serves /api/flights/:id. The router cannot mix the static "latest"
// and "search" segments with the id wildcard, so the dispatch happens here.
func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	switch ps.ByName("id") {
	case "latest":
		h.latest(w, r)
	case "search":
		h.search(w, r)
	default:
		h.getByID(w, r, ps.ByName("id"))
	}
}

func (h *FlightHandler) latest(w http.ResponseWriter, r *http.Request) {
	flights, err := h.service.GetLatest(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "latest", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, flights); err != nil {
		h.log.Error("failed to write success response", "handler", "latest", "error", err)
	}
}

func (h *FlightHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	dateStr := query.Get("date")

	date, err := time.Parse(searchDateLayout, dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("date must be in %s format", searchDateLayout))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "search", "error", writeErr)
		}
		return
	}

	flights, err := h.service.Search(r.Context(), from, to, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "search", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, flights); err != nil {
		h.log.Error("failed to write success response", "handler", "search", "error", err)
	}
}

func (h *FlightHandler) getByID(w http.ResponseWriter, r *http.Request, id string) {
	flight, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "getByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, flight); err != nil {
		h.log.Error("failed to write success response", "handler", "getByID", "error", err)
	}
}

func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	var flight model.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &flight, identity.UserID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, flight); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *FlightHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/flights/:id", h.Get)
	router.POST("/api/flights", h.guard.RequireRole(h.Create, model.RoleOperator, model.RoleAdmin))
}
