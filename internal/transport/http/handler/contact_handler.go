package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artmarket/internal/service"
	"artmarket/internal/transport/http/ez"
)

type ContactHandler struct {
	svc *service.ContactService
	log *zap.Logger
}

func NewContactHandler(svc *service.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

func (h *ContactHandler) Priority() int { return 40 }

func (h *ContactHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, h.log)
	ez.RegisterAction(e, ez.Action[service.ContactInput, struct{}]{
		Method: http.MethodPost, Path: "/contact", Binder: ez.BindJSON,
		NoData: true, Message: "Message sent successfully",
		Handler: func(c *gin.Context, in *service.ContactInput) (struct{}, error) {
			return struct{}{}, h.svc.Send(c.Request.Context(), *in)
		},
	})
}
