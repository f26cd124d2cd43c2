package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// maxUploadSize bounds the multipart form, image included.
const maxUploadSize = 10 << 20 // 10 MiB

// allowedImageTypes maps permitted upload extensions to their content types.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a new event
// @Description Creates an event from multipart form data with an optional image file. The authenticated host becomes the event owner.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventName formData string true "Event name"
// @Param college formData string false "Host organization"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Param mode formData string false "online or offline"
// @Param prize formData string false "Prize"
// @Param judgingCriteria formData string false "Judging criteria"
// @Param contactEmail formData string false "Contact email"
// @Param startDate formData string true "Start date (RFC3339 or YYYY-MM-DD)"
// @Param endDate formData string true "End date"
// @Param deadline formData string true "Registration deadline"
// @Param minTeam formData int true "Minimum team size"
// @Param maxTeam formData int true "Maximum team size"
// @Param image formData file false "Event image (jpg, jpeg, png, gif, webp)"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (host role required)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/create [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	input, err := eventInputFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	image, err := imageFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	event, err := c.Service.Create(r.Context(), id.UserID, input, image)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// All godoc
// @Summary List all events
// @Description Returns all published events, newest first.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/all [get]
func (c *EventController) All(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Hosted godoc
// @Summary List events hosted by the caller
// @Description Returns all events owned by the authenticated host, newest first.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/hosted [get]
func (c *EventController) Hosted(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListByOwner(r.Context(), id.UserID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an event
// @Description Partially updates an event from multipart form data; omitted fields are unchanged. A new image replaces the old one, whose deletion is scheduled best-effort. Only the event owner may update.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param image formData file false "Replacement image (jpg, jpeg, png, gif, webp)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
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
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	update, err := eventUpdateFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	image, err := imageFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	event, err := c.Service.Update(r.Context(), eventID, id.UserID, update, image)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes an event and schedules best-effort deletion of its image asset. Only the event owner may delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Service.Delete(r.Context(), eventID, id.UserID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted successfully"})
}

func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}

// eventInputFromForm reads the full set of event fields from a parsed
// multipart form. Used by Create, where all invariant-bearing fields are
// required.
func eventInputFromForm(r *http.Request) (*domain.EventInput, error) {
	input := &domain.EventInput{
		Name:            strings.TrimSpace(r.FormValue("eventName")),
		College:         strings.TrimSpace(r.FormValue("college")),
		Description:     r.FormValue("description"),
		Category:        strings.TrimSpace(r.FormValue("category")),
		Mode:            strings.ToLower(strings.TrimSpace(r.FormValue("mode"))),
		Prize:           r.FormValue("prize"),
		JudgingCriteria: r.FormValue("judgingCriteria"),
		ContactEmail:    strings.TrimSpace(r.FormValue("contactEmail")),
	}
	var err error
	if input.StartDate, err = parseDate(r.FormValue("startDate")); err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	if input.EndDate, err = parseDate(r.FormValue("endDate")); err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}
	if input.Deadline, err = parseDate(r.FormValue("deadline")); err != nil {
		return nil, fmt.Errorf("deadline: %w", err)
	}
	if input.MinTeam, err = parseIntField(r.FormValue("minTeam")); err != nil {
		return nil, fmt.Errorf("minTeam: %w", err)
	}
	if input.MaxTeam, err = parseIntField(r.FormValue("maxTeam")); err != nil {
		return nil, fmt.Errorf("maxTeam: %w", err)
	}
	return input, nil
}

// eventUpdateFromForm builds a partial update containing only the form fields
// actually present in the request. Ownership and id are never read from the
// form.
func eventUpdateFromForm(r *http.Request) (*domain.EventUpdate, error) {
	update := &domain.EventUpdate{}
	if r.MultipartForm == nil {
		return update, nil
	}
	form := r.MultipartForm.Value

	setString := func(field string, dest **string, transform func(string) string) {
		if vals, ok := form[field]; ok && len(vals) > 0 {
			v := vals[0]
			if transform != nil {
				v = transform(v)
			}
			*dest = &v
		}
	}
	trim := strings.TrimSpace

	setString("eventName", &update.Name, trim)
	setString("college", &update.College, trim)
	setString("description", &update.Description, nil)
	setString("category", &update.Category, trim)
	setString("mode", &update.Mode, func(s string) string { return strings.ToLower(strings.TrimSpace(s)) })
	setString("prize", &update.Prize, nil)
	setString("judgingCriteria", &update.JudgingCriteria, nil)
	setString("contactEmail", &update.ContactEmail, trim)

	setDate := func(field string, dest **time.Time) error {
		if vals, ok := form[field]; ok && len(vals) > 0 {
			t, err := parseDate(vals[0])
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			*dest = &t
		}
		return nil
	}
	if err := setDate("startDate", &update.StartDate); err != nil {
		return nil, err
	}
	if err := setDate("endDate", &update.EndDate); err != nil {
		return nil, err
	}
	if err := setDate("deadline", &update.Deadline); err != nil {
		return nil, err
	}

	setInt := func(field string, dest **int) error {
		if vals, ok := form[field]; ok && len(vals) > 0 {
			n, err := parseIntField(vals[0])
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			*dest = &n
		}
		return nil
	}
	if err := setInt("minTeam", &update.MinTeam); err != nil {
		return nil, err
	}
	if err := setInt("maxTeam", &update.MaxTeam); err != nil {
		return nil, err
	}

	return update, nil
}

// imageFromForm extracts the optional "image" file from a parsed multipart
// form, enforcing the permitted formats. Returns (nil, nil) when no file was
// attached.
func imageFromForm(r *http.Request) (*domain.ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("image: %w", err)
	}
	defer file.Close()

	contentType, err := imageContentType(header)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image: empty file")
	}
	return &domain.ImageUpload{Data: data, ContentType: contentType}, nil
}

func imageContentType(header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", fmt.Errorf("image: unsupported format %q (allowed: jpg, jpeg, png, gif, webp)", ext)
	}
	return contentType, nil
}

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func parseIntField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}
