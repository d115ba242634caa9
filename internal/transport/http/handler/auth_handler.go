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

type AuthHandler struct {
	svc   *service.AuthService
	guard mdw.Guard
	log   *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, guard mdw.Guard, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, guard: guard, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

type forgotIn struct {
	Email string `json:"email" binding:"required,email"`
}

type resetIn struct {
	Password string `json:"password" binding:"required,min=6"`
}

type profileIn struct {
	Name        *string             `json:"name" binding:"omitempty,max=64"`
	Bio         *string             `json:"bio" binding:"omitempty,max=2000"`
	ContactInfo *domain.ContactInfo `json:"contactInfo"`
}

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	pub := ez.New(api.Group("/auth"), h.log)
	private := pub.Group("", h.guard.Authenticate())

	ez.RegisterAction(pub, ez.Action[service.RegisterInput, *service.Session]{
		Method: http.MethodPost, Path: "/register", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.Session, error) {
			return h.svc.Register(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(pub, ez.Action[service.LoginInput, *service.Session]{
		Method: http.MethodPost, Path: "/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.Session, error) {
			return h.svc.Login(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(pub, ez.Action[forgotIn, struct{}]{
		Method: http.MethodPost, Path: "/forgot-password", Binder: ez.BindJSON,
		NoData: true, Message: "Email sent",
		Handler: func(c *gin.Context, in *forgotIn) (struct{}, error) {
			return struct{}{}, h.svc.ForgotPassword(c.Request.Context(), in.Email)
		},
	})

	ez.RegisterAction(pub, ez.Action[resetIn, *service.Session]{
		Method: http.MethodPut, Path: "/reset-password/:resettoken", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *resetIn) (*service.Session, error) {
			return h.svc.ResetPassword(c.Request.Context(), c.Param("resettoken"), in.Password)
		},
	})

	ez.RegisterAction(private, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet, Path: "/profile", Binder: ez.BindNone, Auth: true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Profile(c.Request.Context(), ez.Caller(c).UserID)
		},
	})

	ez.RegisterAction(private, ez.Action[profileIn, *domain.User]{
		Method: http.MethodPut, Path: "/profile", Binder: ez.BindJSON, Auth: true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.User, error) {
			return h.svc.UpdateProfile(c.Request.Context(), ez.Caller(c).UserID, domain.ProfileUpdate{
				Name: in.Name, Bio: in.Bio, ContactInfo: in.ContactInfo,
			})
		},
	})

	ez.RegisterAction(private, ez.Action[struct{}, struct{}]{
		Method: http.MethodPost, Path: "/logout", Binder: ez.BindNone, Auth: true,
		NoData: true, Message: "Logged out",
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.Logout(c.Request.Context(), ez.Caller(c))
		},
	})
}
