package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"artmarket/internal/domain"
	resp "artmarket/internal/transport/http/response"
)

// AErr is a transport-level error with an explicit status.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// StatusOf maps an error onto an HTTP status via the domain taxonomy.
func StatusOf(err error) int {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as an envelope. 5xx details stay in the log.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	status := StatusOf(err)
	msg := ""
	var ae *AErr
	if errors.As(err, &ae) {
		msg = ae.Msg
	} else if m, ok := domain.Message(err); ok {
		msg = m
	}
	if status >= http.StatusInternalServerError {
		if l != nil {
			l.Error("request failed",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		if ae == nil && msg == "" {
			msg = resp.MsgFor(status)
		}
	}
	resp.Abort(c, status, msg)
}

// KeyRequestID is the gin context key the request id middleware fills.
const KeyRequestID = "rid"

// bindError turns gin binding failures into a 400 (or 413) with a short message.
func bindError(err error) error {
	var (
		maxErr  *http.MaxBytesError
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &maxErr):
		return &AErr{Code: http.StatusRequestEntityTooLarge, Err: err}
	case errors.As(err, &verrs):
		return &AErr{Code: http.StatusBadRequest, Msg: fieldMessage(verrs[0]), Err: err}
	case errors.As(err, &typeErr):
		return &AErr{Code: http.StatusBadRequest, Msg: "Invalid value for " + typeErr.Field, Err: err}
	case errors.As(err, &synErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &AErr{Code: http.StatusBadRequest, Msg: "Invalid JSON body", Err: err}
	default:
		return &AErr{Code: http.StatusBadRequest, Msg: "Invalid request parameters", Err: err}
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return capitalize(field) + " is required"
	case "email":
		return "Please add a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", capitalize(field), fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot be more than %s characters", capitalize(field), fe.Param())
	default:
		return "Invalid value for " + field
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
