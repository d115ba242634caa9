package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artmarket/internal/domain"
	"artmarket/internal/service"
	"artmarket/internal/transport/http/ez"
	mdw "artmarket/internal/transport/http/middleware"
)

type CategoryHandler struct {
	svc   *service.CategoryService
	guard mdw.Guard
	log   *zap.Logger
}

func NewCategoryHandler(svc *service.CategoryService, guard mdw.Guard, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, guard: guard, log: log}
}

func (h *CategoryHandler) Priority() int { return 30 }

func (h *CategoryHandler) MountAPI(api *gin.RouterGroup) {
	pub := ez.New(api.Group("/categories"), h.log)
	admin := pub.Group("", h.guard.Authenticate(), mdw.Authorize(domain.RoleSuperAdmin))

	ez.RegisterAction(pub, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(admin, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Message: "Category created successfully",
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(admin, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Message: "Category updated successfully",
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		NoData: true, Message: "Category deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
