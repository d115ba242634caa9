package ez

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"artmarket/internal/core/auth"
	resp "artmarket/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// EZ wraps a router group so actions register in one call.
type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	tagNamesOnce.Do(useTagNames)
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

// Group returns an EZ on a sub-group with extra middleware.
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), l: e.l}
}

// Action describes one endpoint: I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	Auth   bool     // require an identity in the request context
	Roles  []string // restrict to roles, implies Auth
	Status int      // success status, default 200
	// Message is sent next to the data; with NoData the data is dropped.
	Message string
	NoData  bool
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O], mw ...gin.HandlerFunc) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		if a.Auth || len(a.Roles) > 0 {
			id, ok := auth.IdentityFrom(c.Request.Context())
			if !ok {
				resp.Abort(c, http.StatusUnauthorized, "")
				return
			}
			if len(a.Roles) > 0 && !id.HasRole(a.Roles...) {
				resp.Abort(c, http.StatusForbidden, "User role "+id.Role+" is not authorized to access this route")
				return
			}
		}

		var in I
		var err error
		switch a.Binder {
		case BindJSON:
			err = c.ShouldBindJSON(&in)
		case BindQuery:
			err = c.ShouldBindQuery(&in)
		}
		if err != nil {
			Fail(c, e.l, bindError(err))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.l, err)
			return
		}
		if a.NoData {
			c.JSON(status, resp.OKMsg(nil, a.Message))
			return
		}
		c.JSON(status, resp.OKMsg(out, a.Message))
	}

	handlers := append(append([]gin.HandlerFunc{}, mw...), h)
	e.g.Handle(strings.ToUpper(a.Method), a.Path, handlers...)
}

// Caller returns the identity the auth middleware attached.
func Caller(c *gin.Context) *auth.Identity {
	id, _ := auth.IdentityFrom(c.Request.Context())
	return id
}

var tagNamesOnce sync.Once

// useTagNames makes validation errors report json/form names instead of Go field names.
func useTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}
