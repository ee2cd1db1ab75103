package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/handler"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	appointmentsvc "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/appointment"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/httputil"
)

type Handler struct {
	service *appointmentsvc.Service
}

func NewHandler(service *appointmentsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts availability, booking and lifecycle endpoints.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/doctors/:id/availability", h.Availability)

	appointments := authed.Group("/appointments")
	appointments.POST("", middleware.RequireRole(model.UserRolePatient), h.Book)
	appointments.GET("", h.List)
	appointments.GET("/:id", h.Get)
	appointments.PATCH("/:id/status", middleware.RequireRole(model.UserRoleDoctor), h.UpdateStatus)
	appointments.POST("/:id/cancel", h.Cancel)
}

func (h *Handler) Availability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid doctor ID"))
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("date query parameter must be in YYYY-MM-DD format"))
		return
	}

	availability, err := h.service.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, availability)
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), handler.ActorID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, appointment)
}

// List returns the caller's appointments, doctor or patient side depending
// on role.
func (h *Handler) List(c *gin.Context) {
	var dateRange model.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	actorID := handler.ActorID(c)
	var (
		appointments []*model.Appointment
		err          error
	)
	if handler.ActorRole(c) == model.UserRoleDoctor {
		appointments, err = h.service.ListForDoctor(c.Request.Context(), actorID, dateRange)
	} else {
		appointments, err = h.service.ListForPatient(c.Request.Context(), actorID, dateRange)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id, handler.ActorID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid appointment ID"))
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	appointment, err := h.service.ChangeStatus(c.Request.Context(), id, handler.ActorID(c), handler.ActorRole(c), req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid appointment ID"))
		return
	}

	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	appointment, err := h.service.Cancel(c.Request.Context(), id, handler.ActorID(c), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}
