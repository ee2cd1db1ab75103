package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/handler"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	patientsvc "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/patient"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/httputil"
)

type Handler struct {
	service *patientsvc.Service
}

func NewHandler(service *patientsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the patient's own profile endpoints plus doctor
// lookup of patient records.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	own := authed.Group("/patients/me", middleware.RequireRole(model.UserRolePatient))
	own.GET("", h.GetOwn)
	own.PUT("", h.UpdateOwn)

	authed.GET("/patients/:id", middleware.RequireRole(model.UserRoleDoctor), h.Get)
}

func (h *Handler) GetOwn(c *gin.Context) {
	patient, err := h.service.Get(c.Request.Context(), handler.ActorID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) UpdateOwn(c *gin.Context) {
	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	patient, err := h.service.UpdateProfile(c.Request.Context(), handler.ActorID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid patient ID"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}
