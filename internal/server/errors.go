package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	creditnotedomain "github.com/vyapari/gstbill/internal/creditnote/domain"
	customerdomain "github.com/vyapari/gstbill/internal/customer/domain"
	gstdomain "github.com/vyapari/gstbill/internal/gst/domain"
	gstr1domain "github.com/vyapari/gstbill/internal/gstr1/domain"
	invoicedomain "github.com/vyapari/gstbill/internal/invoice/domain"
	productdomain "github.com/vyapari/gstbill/internal/product/domain"
	"github.com/vyapari/gstbill/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusNotFound:
		return "not_found", payload.Type
	case status == http.StatusConflict:
		return "conflict", payload.Type
	default:
		code := payload.Type
		if len(payload.Errors) > 0 {
			code = payload.Errors[0].Code
		}
		return "validation", code
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCartValidationError(err),
		isComplianceValidationError(err),
		isCustomerValidationError(err),
		isProductValidationError(err),
		isInvoiceValidationError(err),
		isCreditNoteValidationError(err),
		errors.Is(err, gstr1domain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isCartValidationError(err error) bool {
	switch {
	case errors.Is(err, gstdomain.ErrEmptyCart),
		errors.Is(err, gstdomain.ErrInvalidLineItem),
		errors.Is(err, gstdomain.ErrInvalidDiscount):
		return true
	default:
		return false
	}
}

func isComplianceValidationError(err error) bool {
	switch {
	case errors.Is(err, compliancedomain.ErrInvalidVehicleFormat),
		errors.Is(err, compliancedomain.ErrInvalidRegistrationFormat),
		errors.Is(err, compliancedomain.ErrInvalidHSNCode),
		errors.Is(err, compliancedomain.ErrInvalidEwayBillNumber),
		errors.Is(err, compliancedomain.ErrInvalidStateCode),
		errors.Is(err, compliancedomain.ErrInvalidPINCode),
		errors.Is(err, compliancedomain.ErrInvalidTransportMode):
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidCreditLimit):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidCode),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidRate),
		errors.Is(err, productdomain.ErrInvalidGSTRate),
		errors.Is(err, productdomain.ErrInvalidStockDelta):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidPaymentMode),
		errors.Is(err, invoicedomain.ErrCustomerRequired),
		errors.Is(err, invoicedomain.ErrUnknownProduct):
		return true
	default:
		return false
	}
}

func isCreditNoteValidationError(err error) bool {
	switch {
	case errors.Is(err, creditnotedomain.ErrInvalidID),
		errors.Is(err, creditnotedomain.ErrNothingToReturn),
		errors.Is(err, creditnotedomain.ErrNotOnInvoice),
		errors.Is(err, creditnotedomain.ErrExceedsReturnable):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, customerdomain.ErrDuplicateGSTIN),
		errors.Is(err, productdomain.ErrDuplicateCode),
		errors.Is(err, productdomain.ErrInsufficientStock),
		errors.Is(err, invoicedomain.ErrAlreadyCancelled),
		errors.Is(err, invoicedomain.ErrInvoiceCancelled),
		errors.Is(err, invoicedomain.ErrCreditLimitExceeded),
		errors.Is(err, creditnotedomain.ErrAlreadyCancelled),
		db.IsDuplicateKeyErr(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, creditnotedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		// Sentinels are snake_case codes; wrapped detail comes after a colon.
		code := err.Error()
		if idx := strings.Index(code, ":"); idx >= 0 {
			code = code[:idx]
		}
		return code
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	if msg == "invalid_request" {
		return "invalid request"
	}
	return "invalid value"
}
