package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator with JSON field names and the
// domain enum tags used by request DTOs. Safe to call more than once.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("transaction_type", func(fl validator.FieldLevel) bool {
		return inventory.TransactionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("reference_type", func(fl validator.FieldLevel) bool {
		return inventory.ReferenceType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("adjustment_reason", func(fl validator.FieldLevel) bool {
		return inventory.AdjustmentReason(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("return_type", func(fl validator.FieldLevel) bool {
		return trade.ReturnType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("return_reason", func(fl validator.FieldLevel) bool {
		return trade.ReturnReason(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("return_status", func(fl validator.FieldLevel) bool {
		switch trade.ReturnStatus(fl.Field().String()) {
		case trade.ReturnStatusPending, trade.ReturnStatusApproved,
			trade.ReturnStatusRejected, trade.ReturnStatusCompleted:
			return true
		}
		return false
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError writes a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDKey)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "transaction_type":
		return "Must be IN, OUT or ADJUSTMENT"
	case "reference_type":
		return "Unknown reference type"
	case "adjustment_reason":
		return "Unknown adjustment reason"
	case "return_type":
		return "Must be RETURN or EXCHANGE"
	case "return_reason":
		return "Unknown return reason"
	case "return_status":
		return "Unknown return status"
	default:
		return "Invalid value"
	}
}
