package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type RegistrationRequest struct {
	UserEmail   string              `json:"userEmail"`
	EventID     string              `json:"eventId"`
	TeamName    string              `json:"teamName"`
	TeamMembers []domain.TeamMember `json:"teamMembers"`
}

func (r *RegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.UserEmail) == "" {
		errs = append(errs, "userEmail is required")
	}
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	if strings.TrimSpace(r.TeamName) == "" {
		errs = append(errs, "teamName is required")
	}
	if len(r.TeamMembers) == 0 {
		errs = append(errs, "teamMembers must not be empty")
	}
	return errs
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a team for an event
// @Description Registers a team for an event. A given email may register for an event at most once; repeats are rejected atomically regardless of concurrency.
// @Tags registrations
// @Accept json
// @Produce json
// @Param request body RegistrationRequest true "Registration details"
// @Success 201 {object} helpers.APIResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.Register(r.Context(), req.UserEmail, req.EventID, req.TeamName, req.TeamMembers)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// UserEvents godoc
// @Summary List registrations for a user
// @Description Returns all registrations made under the given email, each joined with its event.
// @Tags registrations
// @Produce json
// @Param userEmail query string true "Registrant email"
// @Success 200 {object} helpers.APIResponse "data contains the registration list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register/user-events [get]
func (c *RegistrationController) UserEvents(w http.ResponseWriter, r *http.Request) {
	userEmail := r.URL.Query().Get("userEmail")
	if strings.TrimSpace(userEmail) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "userEmail query parameter is required")
		return
	}
	regs, err := c.Service.ListByUser(r.Context(), userEmail)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// EventRegistrations godoc
// @Summary List registrations for an event
// @Description Returns the full registration roster for an event. Only the event owner may view it.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the registration list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register/event/{eventID} [get]
func (c *RegistrationController) EventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListByEvent(r.Context(), eventID, id.UserID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

func (c *RegistrationController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered for this event")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
