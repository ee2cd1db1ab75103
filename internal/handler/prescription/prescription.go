package prescription

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/handler"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	prescriptionsvc "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/prescription"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/httputil"
)

type Handler struct {
	service *prescriptionsvc.Service
}

func NewHandler(service *prescriptionsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts prescription issuance (doctor only), listing for
// both parties and the medicine catalogue.
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	prescriptions := authed.Group("/prescriptions")
	prescriptions.POST("", middleware.RequireRole(model.UserRoleDoctor), h.Create)
	prescriptions.GET("", h.List)
	prescriptions.GET("/:id", h.Get)

	medicines := authed.Group("/medicines")
	medicines.GET("", h.SearchMedicines)
	medicines.GET("/categories", h.ListMedicineCategories)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	prescription, err := h.service.Create(c.Request.Context(), handler.ActorID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, prescription)
}

// List returns the caller's prescriptions, issued or received depending on
// role.
func (h *Handler) List(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}
	p.Normalize()

	actorID := handler.ActorID(c)
	var (
		prescriptions []*model.Prescription
		total         int
		err           error
	)
	if handler.ActorRole(c) == model.UserRoleDoctor {
		prescriptions, total, err = h.service.ListForDoctor(c.Request.Context(), actorID, p)
	} else {
		prescriptions, total, err = h.service.ListForPatient(c.Request.Context(), actorID, p)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, prescriptions, p.Page, p.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid prescription ID"))
		return
	}

	prescription, err := h.service.Get(c.Request.Context(), id, handler.ActorID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescription)
}

func (h *Handler) SearchMedicines(c *gin.Context) {
	var filters model.MedicineFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	medicines, total, err := h.service.SearchMedicines(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, medicines, filters.Page, filters.PageSize, total)
}

func (h *Handler) ListMedicineCategories(c *gin.Context) {
	categories, err := h.service.ListMedicineCategories(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, categories)
}
