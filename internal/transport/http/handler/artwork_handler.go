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

type ArtworkHandler struct {
	svc   *service.ArtworkService
	guard mdw.Guard
	log   *zap.Logger
}

func NewArtworkHandler(svc *service.ArtworkService, guard mdw.Guard, log *zap.Logger) *ArtworkHandler {
	return &ArtworkHandler{svc: svc, guard: guard, log: log}
}

func (h *ArtworkHandler) Priority() int { return 20 }

// listQ binds the gallery query; pointer fields distinguish absent from zero.
type listQ struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Sold     *bool  `form:"sold"`
	Page     *int   `form:"page"`
	Limit    *int   `form:"limit"`
}

type artworkPatchIn struct {
	Title       *string   `json:"title" binding:"omitempty,max=100"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
	Size        *string   `json:"size" binding:"omitempty,max=50"`
	Note        *string   `json:"note"`
	Sold        *bool     `json:"sold"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
	Tags        *[]string `json:"tags"`
}

func (in artworkPatchIn) patch() domain.ArtworkPatch {
	return domain.ArtworkPatch{
		Title: in.Title, Description: in.Description, Image: in.Image, Images: in.Images,
		Size: in.Size, Note: in.Note, Sold: in.Sold, Category: in.Category, Tags: in.Tags,
	}
}

func (h *ArtworkHandler) MountAPI(api *gin.RouterGroup) {
	pub := ez.New(api.Group("/artworks"), h.log)
	private := pub.Group("", h.guard.Authenticate(), h.guard.Active())

	ez.RegisterAction(pub, ez.Action[listQ, *service.ArtworkPage]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *listQ) (*service.ArtworkPage, error) {
			return h.svc.List(c.Request.Context(), service.ArtworkQuery{
				Search: q.Search, Category: q.Category, Sold: q.Sold, Page: q.Page, Limit: q.Limit,
			})
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, *domain.Artwork]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Artwork, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, []domain.Artwork]{
		Method: http.MethodGet, Path: "/artist/:artistId", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Artwork, error) {
			return h.svc.ByArtist(c.Request.Context(), c.Param("artistId"))
		},
	})

	ez.RegisterAction(private, ez.Action[service.ArtworkInput, *domain.Artwork]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Roles: []string{domain.RoleArtist},
		Handler: func(c *gin.Context, in *service.ArtworkInput) (*domain.Artwork, error) {
			return h.svc.Create(c.Request.Context(), ez.Caller(c), *in)
		},
	})

	ez.RegisterAction(private, ez.Action[artworkPatchIn, *domain.Artwork]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON, Auth: true,
		Handler: func(c *gin.Context, in *artworkPatchIn) (*domain.Artwork, error) {
			return h.svc.Update(c.Request.Context(), ez.Caller(c), c.Param("id"), in.patch())
		},
	})

	ez.RegisterAction(private, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Auth: true,
		NoData: true, Message: "Artwork deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.Delete(c.Request.Context(), ez.Caller(c), c.Param("id"))
		},
	})
}
