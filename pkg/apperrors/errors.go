package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Payment and order error types.
//
// SignatureInvalid is terminal for a given payload: retrying the same
// payload will keep failing, so callers surface it as verified:false
// rather than a transport error.
var (
	ErrConfiguration    = New(http.StatusServiceUnavailable, "Service not configured", nil)
	ErrSignatureInvalid = New(http.StatusBadRequest, "Signature verification failed", nil)
	ErrProcessing       = New(http.StatusInternalServerError, "Event processing failed", nil)
)

// ProductNotFoundError aborts total verification entirely; no partial
// total is ever returned for a cart containing an unresolvable product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// NewProductNotFound creates a ProductNotFoundError for the given id.
func NewProductNotFound(productID string) *ProductNotFoundError {
	return &ProductNotFoundError{ProductID: productID}
}

// ErrorMiddleware converts gin errors into JSON error responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = New(http.StatusInternalServerError, "Internal server error", err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
