package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"labreserve/internal/cache"
	"labreserve/internal/export"
	"labreserve/internal/metrics"
	"labreserve/internal/model"
	"labreserve/internal/schedule"
)

// Handler exposes the scheduling engine over HTTP.
type Handler struct {
	svc     *schedule.Service
	checker *schedule.Checker
	months  *schedule.MonthBuilder
	days    *schedule.DayBuilder
	cache   *cache.MonthCache
	logger  *zerolog.Logger
}

// NewHandler constructs the API handler. cache may be nil.
func NewHandler(svc *schedule.Service, checker *schedule.Checker, months *schedule.MonthBuilder, days *schedule.DayBuilder, monthCache *cache.MonthCache, logger *zerolog.Logger) *Handler {
	return &Handler{svc: svc, checker: checker, months: months, days: days, cache: monthCache, logger: logger}
}

// Register wires the API routes onto e. limiter guards the mutating routes.
func (h *Handler) Register(e *echo.Echo, limiter echo.MiddlewareFunc) {
	e.Use(Identity())

	v1 := e.Group("/v1")
	v1.GET("/calendar", h.GetCalendar)
	v1.GET("/calendar/:date", h.GetDay)
	v1.GET("/availability", h.GetAvailability)
	v1.GET("/export/:year/:month", h.ExportMonth)

	mutating := v1.Group("")
	if limiter != nil {
		mutating.Use(limiter)
	}
	mutating.POST("/reservations", h.CreateReservation)
	mutating.POST("/reservations/:id/cancel", h.CancelReservation)
	mutating.DELETE("/reservations/:id", h.DeleteReservation, RequireRole(RoleAdmin))
}

// GetCalendar handles GET /v1/calendar?year=&month=. Out-of-range values
// degrade to the current month inside the builder.
func (h *Handler) GetCalendar(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))

	ctx := c.Request().Context()
	if grid, ok := h.cache.Get(ctx, year, month); ok {
		return c.JSON(http.StatusOK, grid)
	}

	grid, err := h.months.BuildMonth(ctx, year, month)
	if err != nil {
		return h.fail(c, err)
	}
	h.cache.Put(ctx, grid)
	return c.JSON(http.StatusOK, grid)
}

// GetDay handles GET /v1/calendar/:date and returns the per-hour occupancy
// detail plus the start times still open for booking.
func (h *Handler) GetDay(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	detail, err := h.days.BuildDayDetail(c.Request().Context(), date)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetAvailability handles GET /v1/availability?date=&start_time=&duration=.
// A read-only probe: it answers whether the slot is currently bookable
// without reserving anything, so a later create can still conflict.
func (h *Handler) GetAvailability(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	startHour, err := schedule.ParseHour(c.QueryParam("start_time"))
	if err != nil {
		return h.fail(c, err)
	}
	duration, err := strconv.Atoi(c.QueryParam("duration"))
	if err != nil || (duration != 1 && duration != 2) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be 1 or 2"})
	}

	err = h.checker.Check(c.Request().Context(), date, startHour, duration)
	var conflict *schedule.ConflictError
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"available": true})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusOK, echo.Map{
			"available": false,
			"reason":    conflict.Error(),
			"conflict":  fmt.Sprintf("%02d:00-%02d:00", conflict.StartHour, conflict.EndHour),
		})
	case errors.Is(err, schedule.ErrOutOfRange):
		return c.JSON(http.StatusOK, echo.Map{"available": false, "reason": err.Error()})
	default:
		return h.fail(c, err)
	}
}

type createRequest struct {
	Date         string `json:"date"`
	StartTime    string `json:"start_time"` // "09:00"
	Duration     int    `json:"duration"`
	Group        string `json:"group"`
	Subject      string `json:"subject"`
	Instructor   string `json:"instructor"`
	StudentCount string `json:"student_count"`
	Notes        string `json:"notes"`
}

// CreateReservation handles POST /v1/reservations. The responsible user
// comes from the identity headers, never from the request body.
func (h *Handler) CreateReservation(c echo.Context) error {
	var body createRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	startHour, err := schedule.ParseHour(body.StartTime)
	if err != nil {
		return h.fail(c, err)
	}

	// Unparsable counts coalesce to 0 as the booking form always did;
	// negative values are rejected by the service.
	studentCount, err := strconv.Atoi(body.StudentCount)
	if err != nil {
		studentCount = 0
	}

	responsible, _ := c.Get("user_name").(string)
	reservation, err := h.svc.Create(c.Request().Context(), schedule.CreateRequest{
		Date:         body.Date,
		StartHour:    startHour,
		Duration:     body.Duration,
		Group:        body.Group,
		Subject:      body.Subject,
		Instructor:   body.Instructor,
		StudentCount: studentCount,
		Notes:        body.Notes,
		Responsible:  responsible,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

// CancelReservation handles POST /v1/reservations/:id/cancel.
func (h *Handler) CancelReservation(c echo.Context) error {
	if err := h.svc.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": string(model.StatusCancelled)})
}

// DeleteReservation handles DELETE /v1/reservations/:id. Admin only.
func (h *Handler) DeleteReservation(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportMonth handles GET /v1/export/:year/:month and streams an xlsx
// report of the month's confirmed reservations.
func (h *Handler) ExportMonth(c echo.Context) error {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	ctx := c.Request().Context()
	grid, err := h.months.BuildMonth(ctx, year, month)
	if err != nil {
		return h.fail(c, err)
	}
	reservations, err := h.months.MonthReservations(ctx, grid.Year, grid.Month)
	if err != nil {
		return h.fail(c, err)
	}

	workbook, err := export.MonthReport(grid, reservations)
	if err != nil {
		return h.fail(c, err)
	}
	defer workbook.Close()

	filename := fmt.Sprintf("reservas_%04d-%02d.xlsx", grid.Year, grid.Month)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return workbook.Save(c.Response())
}

// fail maps engine errors to HTTP responses. Validation and conflict
// errors carry their reason to the caller; everything else logs and
// returns an opaque 500.
func (h *Handler) fail(c echo.Context, err error) error {
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    conflict.Error(),
			"conflict": fmt.Sprintf("%02d:00-%02d:00", conflict.StartHour, conflict.EndHour),
		})
	case errors.Is(err, schedule.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": schedule.ErrNotFound.Error()})
	case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, schedule.ErrOutOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, schedule.ErrDataIntegrity):
		metrics.IncIntegrityViolation()
		h.logger.Error().Err(err).Msg("data integrity violation")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation data is inconsistent"})
	default:
		h.logger.Error().Err(err).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
