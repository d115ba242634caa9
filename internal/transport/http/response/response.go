package response

import "github.com/gin-gonic/gin"

// Resp is the envelope every endpoint answers with.
type Resp struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any) Resp { return Resp{Success: true, Data: data} }

func OKMsg(data any, msg string) Resp { return Resp{Success: true, Data: data, Message: msg} }

// Error builds a failure envelope; an empty msg falls back to the status default.
func Error(status int, msg string) Resp {
	if msg == "" {
		msg = MsgFor(status)
	}
	return Resp{Success: false, Message: msg}
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}
