package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	adminservice "flightfinder/internal/admin/service"
	bookingservice "flightfinder/internal/bookings/service"
	httputil "flightfinder/pkg/http"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/middleware"
	"flightfinder/pkg/model"
)

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// AdminHandler serves the profile endpoint plus the admin dashboard:
// user listings, operator approval and booking oversight.
type AdminHandler struct {
	service  adminservice.AdminService
	bookings bookingservice.BookingService
	guard    *middleware.Guard
	log      *logger.Logger
}

func NewAdminHandler(
	service adminservice.AdminService,
	bookings bookingservice.BookingService,
	guard *middleware.Guard,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		service:  service,
		bookings: bookings,
		guard:    guard,
		log:      log,
	}
}

func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListUsers", "error", writeErr)
		}
		return
	}

	users, total, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListUsers", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, users, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListUsers", "error", err)
	}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBookings", "error", writeErr)
		}
		return
	}

	views, total, err := h.bookings.ListForAdmin(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBookings", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBookings", "error", err)
	}
}

func (h *AdminHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if err := h.bookings.Cancel(r.Context(), ps.ByName("id"), identity); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking cancelled"); err != nil {
		h.log.Error("failed to write message response", "handler", "CancelBooking", "error", err)
	}
}

func (h *AdminHandler) ListOperators(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListOperators", "error", writeErr)
		}
		return
	}

	operators, err := h.service.ListOperators(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListOperators", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, operators); err != nil {
		h.log.Error("failed to write success response", "handler", "ListOperators", "error", err)
	}
}

func (h *AdminHandler) UpdateOperator(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateOperator", "error", writeErr)
		}
		return
	}

	operator, err := h.service.SetOperatorStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateOperator", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, operator); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateOperator", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/users/me", h.guard.Authenticated(h.Me))
	router.GET("/api/users", h.guard.RequireRole(h.ListUsers, model.RoleAdmin))
	router.GET("/api/admin/bookings", h.guard.RequireRole(h.ListBookings, model.RoleAdmin))
	router.POST("/api/admin/bookings/:id/cancel", h.guard.RequireRole(h.CancelBooking, model.RoleAdmin))
	router.GET("/api/admin/operators", h.guard.RequireRole(h.ListOperators, model.RoleAdmin))
	router.PATCH("/api/admin/operators/:id", h.guard.RequireRole(h.UpdateOperator, model.RoleAdmin))
}
