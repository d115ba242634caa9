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

// AdminHandler serves user management and moderation. It is mounted under
// /api/admin on the public API and under /admin/v1 on the back-office port.
type AdminHandler struct {
	svc   *service.AdminService
	guard mdw.Guard
	log   *zap.Logger
}

func NewAdminHandler(svc *service.AdminService, guard mdw.Guard, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, guard: guard, log: log}
}

func (h *AdminHandler) Priority() int { return 50 }

type usersQ struct {
	Q     string `form:"q"`
	Page  *int   `form:"page"`
	Limit *int   `form:"limit"`
}

type pageQ struct {
	Page  *int `form:"page"`
	Limit *int `form:"limit"`
}

func (h *AdminHandler) MountAPI(api *gin.RouterGroup) {
	h.mount(api.Group("/admin"))
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	h.mount(admin)
}

func (h *AdminHandler) mount(g *gin.RouterGroup) {
	e := ez.New(g.Group("", h.guard.Authenticate(), mdw.Authorize(domain.RoleSuperAdmin)), h.log)

	ez.RegisterAction(e, ez.Action[usersQ, *service.UserPage]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *usersQ) (*service.UserPage, error) {
			return h.svc.ListUsers(c.Request.Context(), in.Q, in.Page, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPut, Path: "/users/:id/toggle-status", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.ToggleStatus(c.Request.Context(), ez.Caller(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, *service.AdminArtworkPage]{
		Method: http.MethodGet, Path: "/artworks", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.AdminArtworkPage, error) {
			return h.svc.ListArtworks(c.Request.Context(), in.Page, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/artworks/:id", Binder: ez.BindNone,
		NoData: true, Message: "Artwork deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.DeleteArtwork(c.Request.Context(), ez.Caller(c), c.Param("id"))
		},
	})
}
