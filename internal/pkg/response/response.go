package response

import (
	"encoding/json"
	"io"
	"net/http"
)

// exposeErrors controls whether raw error details are included in responses.
// Enabled in development, disabled in production.
var exposeErrors = false

// ExposeErrors toggles inclusion of raw error details in error responses
func ExposeErrors(enabled bool) {
	exposeErrors = enabled
}

// DecodeJSON decodes JSON from request body into the provided struct
func DecodeJSON(body io.ReadCloser, v interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// Response represents a standard API response
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// OK sends a 200 OK response
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// OKWithMessage sends a 200 OK response with a message
func OKWithMessage(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusOK, Response{Success: true, Data: data, Message: message})
}

// Created sends a 201 Created response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// CreatedWithMessage sends a 201 Created response with a message
func CreatedWithMessage(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WithPagination sends a 200 response with pagination metadata
func WithPagination(w http.ResponseWriter, data interface{}, p Pagination) {
	write(w, http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Success: false, Message: message})
}

// ErrorWithDetail sends an error response carrying the underlying error.
// The raw detail is exposed only outside production.
func ErrorWithDetail(w http.ResponseWriter, status int, message string, err error) {
	resp := Response{Success: false, Message: message}
	if exposeErrors && err != nil {
		resp.Error = err.Error()
	}
	write(w, status, resp)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict sends a uniqueness-conflict response. The store-level duplicate-key
// contract maps conflicts to 400, not 409.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// ValidationError sends a 400 response with field details
func ValidationError(w http.ResponseWriter, details map[string]string) {
	resp := Response{Success: false, Message: "Validation failed", Data: details}
	write(w, http.StatusBadRequest, resp)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, err error) {
	ErrorWithDetail(w, http.StatusInternalServerError, "An unexpected error occurred", err)
}
