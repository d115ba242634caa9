package response

import "net/http"

// Default client messages per status, used when an error carries none.
var StatusMsg = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Not authorized to access this route",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Resource not found",
	http.StatusConflict:              "Resource already exists",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests from this IP, please try again later.",
	http.StatusInternalServerError:   "Server Error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timeout",
}

func MsgFor(status int) string {
	if m, ok := StatusMsg[status]; ok {
		return m
	}
	return http.StatusText(status)
}
