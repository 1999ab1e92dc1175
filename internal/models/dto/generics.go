// Package dto contains Data Transfer Objects for API responses
package dto

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BaseResponse holds the fields every response carries
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SuccessResponse wraps a successful payload
type SuccessResponse struct {
	BaseResponse
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse wraps a failure
type ErrorResponse struct {
	BaseResponse
	Error   string      `json:"error"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PaginatedResponse wraps one page of results
type PaginatedResponse struct {
	BaseResponse
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message,omitempty"`
}

// Pagination describes the page returned
type Pagination struct {
	CurrentPage  int   `json:"current_page" example:"1"`
	PerPage      int   `json:"per_page" example:"10"`
	TotalPages   int   `json:"total_pages" example:"5"`
	TotalRecords int64 `json:"total_records" example:"50"`
	HasNext      bool  `json:"has_next" example:"true"`
	HasPrev      bool  `json:"has_prev" example:"false"`
}

// HealthResponse is the healthcheck payload
type HealthResponse struct {
	BaseResponse
	Status  string            `json:"status" example:"OK"`
	Service string            `json:"service" example:"ticketpulse"`
	Version string            `json:"version" example:"1.0.0"`
	Uptime  string            `json:"uptime,omitempty" example:"1h30m45s"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// RateLimitErrorResponse is returned when a client exceeds its quota
type RateLimitErrorResponse struct {
	BaseResponse
	Error      string    `json:"error" example:"rate_limit_exceeded"`
	Code       int       `json:"code" example:"429"`
	Message    string    `json:"message" example:"Too many requests"`
	RetryAfter string    `json:"retry_after" example:"60s"`
	Limit      int       `json:"limit" example:"100"`
	Remaining  int       `json:"remaining" example:"0"`
	ResetTime  time.Time `json:"reset_time" example:"2024-01-01T12:01:00Z"`
}

// NewSuccessResponse builds a success envelope
func NewSuccessResponse(c *gin.Context, data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		BaseResponse: newBase(c, true),
		Data:         data,
		Message:      message,
	}
}

// NewErrorResponse builds an error envelope
func NewErrorResponse(c *gin.Context, code int, errCode string, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		BaseResponse: newBase(c, false),
		Error:        errCode,
		Code:         code,
		Message:      message,
		Details:      details,
	}
}

// NewPaginatedResponse builds a paginated envelope
func NewPaginatedResponse(c *gin.Context, data interface{}, pagination Pagination, message string) PaginatedResponse {
	return PaginatedResponse{
		BaseResponse: newBase(c, true),
		Data:         data,
		Pagination:   pagination,
		Message:      message,
	}
}

// NewHealthResponse builds the healthcheck envelope
func NewHealthResponse(c *gin.Context, status, service, version, uptime string, checks map[string]string) HealthResponse {
	return HealthResponse{
		BaseResponse: newBase(c, status == "OK"),
		Status:       status,
		Service:      service,
		Version:      version,
		Uptime:       uptime,
		Checks:       checks,
	}
}

// NewRateLimitErrorResponse builds the rate limit envelope
func NewRateLimitErrorResponse(c *gin.Context, retryAfter string, limit, remaining int, resetTime time.Time) RateLimitErrorResponse {
	return RateLimitErrorResponse{
		BaseResponse: newBase(c, false),
		Error:        "rate_limit_exceeded",
		Code:         http.StatusTooManyRequests,
		Message:      "Too many requests",
		RetryAfter:   retryAfter,
		Limit:        limit,
		Remaining:    remaining,
		ResetTime:    resetTime,
	}
}

// newBase stamps the envelope with the time and the id set by the request
// id middleware
func newBase(c *gin.Context, success bool) BaseResponse {
	return BaseResponse{
		Success:   success,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString("request_id"),
	}
}

// NewPagination computes the page flags of a result set
func NewPagination(page, perPage int, total int64) Pagination {
	if perPage < 1 {
		perPage = 1
	}
	from := (page - 1) * perPage
	return Pagination{
		CurrentPage:  page,
		PerPage:      perPage,
		TotalPages:   int((total + int64(perPage) - 1) / int64(perPage)),
		TotalRecords: total,
		HasNext:      int64(from+perPage) < total,
		HasPrev:      from > 0,
	}
}
