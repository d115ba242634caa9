package router

import (
	"github.com/gin-gonic/gin"
)

// NewAdminEngine builds the back-office engine. Modules mount under
// /admin/v1 and enforce the super_admin role themselves. No CORS: the
// admin port is not meant to be reached from a browser origin.
func NewAdminEngine(o Options, reg *Registry) *gin.Engine {
	r := base(o)
	reg.MountAdmin(r.Group("/admin/v1"))
	return r
}
