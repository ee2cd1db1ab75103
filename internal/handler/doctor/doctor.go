package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/handler"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	doctorsvc "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/doctor"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/httputil"
)

type Handler struct {
	service *doctorsvc.Service
}

func NewHandler(service *doctorsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts discovery endpoints for any authenticated user and
// profile management for doctors.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	doctors := authed.Group("/doctors")
	doctors.GET("", h.Search)

	// Slow-moving lookup data gets client-side caching.
	lookups := doctors.Group("", middleware.Cache(middleware.DefaultCacheConfig()))
	lookups.GET("/specialties", h.ListSpecialties)
	lookups.GET("/cities", h.ListCities)

	doctors.GET("/:id", h.Get)

	own := authed.Group("/doctors/me", middleware.RequireRole(model.UserRoleDoctor))
	own.PUT("/clinic-info", h.UpdateClinicInfo)
	own.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) Search(c *gin.Context) {
	var filters model.DoctorFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	doctors, total, err := h.service.Search(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, doctors, filters.Page, filters.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid doctor ID"))
		return
	}

	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, specialties)
}

func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cities)
}

func (h *Handler) UpdateClinicInfo(c *gin.Context) {
	var req model.UpdateClinicInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	doctor, err := h.service.UpdateClinicInfo(c.Request.Context(), handler.ActorID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Bio               *string           `json:"bio" binding:"omitempty,max=2000"`
		YearsOfExperience *int              `json:"years_of_experience" binding:"omitempty,gte=0,lte=80"`
		Specialties       []model.Specialty `json:"specialties"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	doctor, err := h.service.UpdateProfile(c.Request.Context(), handler.ActorID(c), &model.Doctor{
		Bio:               req.Bio,
		YearsOfExperience: req.YearsOfExperience,
		Specialties:       req.Specialties,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}
