package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"announcebot/internal/delivery/http/helpers"
	"announcebot/internal/domain"
	"announcebot/internal/services"
)

// ScheduleQuerier is the read side the ops API exposes.
type ScheduleQuerier interface {
	Upcoming(ctx context.Context, from int) ([]*domain.PendingEvent, error)
	Recurring(ctx context.Context) ([]services.RecurringView, error)
	Calendar(ctx context.Context) (string, error)
	Match(text string) []services.MatchView
}

// MatchRequest is the request body for POST /api/match.
type MatchRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator.
func (m MatchRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.Text) == "" {
		errs = append(errs, "text is required")
	}
	return errs
}

// PendingListSuccessResponse is the success envelope for GET /api/pending.
type PendingListSuccessResponse struct {
	Data  []*domain.PendingEvent `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// RecurringListSuccessResponse is the success envelope for GET /api/recurring.
type RecurringListSuccessResponse struct {
	Data  []services.RecurringView `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// MatchSuccessResponse is the success envelope for POST /api/match.
type MatchSuccessResponse struct {
	Data  []services.MatchView `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type ScheduleController struct {
	Logger  *slog.Logger
	Service ScheduleQuerier
}

func NewScheduleController(logger *slog.Logger, svc ScheduleQuerier) *ScheduleController {
	return &ScheduleController{
		Logger:  logger,
		Service: svc,
	}
}

// ListPending godoc
// @Summary List upcoming pending events
// @Description Pending events whose end date is on or after from (default: today in UTC+9), ordered by end date.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param from query string false "First end date, YYYYMMDD"
// @Success 200 {object} controllers.PendingListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/pending [get]
func (c *ScheduleController) ListPending(w http.ResponseWriter, r *http.Request) {
	from, err := helpers.ParseDateKey(r, "from")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Service.Upcoming(r.Context(), from)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.PendingEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListRecurring godoc
// @Summary List recurring dates
// @Description The recurring catalog with each entry's next occurrence, soonest first.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RecurringListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/recurring [get]
func (c *ScheduleController) ListRecurring(w http.ResponseWriter, r *http.Request) {
	views, err := c.Service.Recurring(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// Calendar godoc
// @Summary iCalendar feed
// @Description Upcoming pending events as all-day events and recurring dates as yearly events.
// @Tags schedule
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "iCalendar document"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar.ics [get]
func (c *ScheduleController) Calendar(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Service.Calendar(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="announcebot.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Match godoc
// @Summary Dry-run the pattern catalog
// @Description Shows which rules a message would trigger. Nothing is stored or sent.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MatchRequest true "Message text"
// @Success 200 {object} controllers.MatchSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/match [post]
func (c *ScheduleController) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Match(req.Text))
}

func (c *ScheduleController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}
