package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase"
	"repair_costing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var jsonNamesOnce sync.Once

// useJSONFieldNames makes validator report json names instead of Go field names.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON binds the body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		appErr := bindError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return false
	}
	return true
}

func bindError(err error) *pkg.AppError {
	appErr := pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.WithDetail("body", "is not valid json for this request")
	}
	for _, fe := range verrs {
		appErr.WithDetail(fe.Field(), fieldMessage(fe))
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}

// mapError translates the domain error taxonomy into the HTTP envelope.
func mapError(err error) *pkg.AppError {
	var ve *entities.ValidationError
	var sv *entities.StageViolationError
	switch {
	case errors.As(err, &ve):
		appErr := pkg.NewDomainError("VALIDATION_ERROR", ve.Error(), err, http.StatusBadRequest)
		if ve.Field != "" {
			appErr.WithDetail("field", ve.Field)
		}
		return appErr
	case errors.As(err, &sv):
		required := make([]string, 0, len(sv.Required))
		for _, s := range sv.Required {
			required = append(required, string(s))
		}
		return pkg.NewDomainError("STAGE_VIOLATION", sv.Error(), err, http.StatusConflict).
			WithDetail("operation", sv.Operation).
			WithDetail("current_stage", string(sv.Current)).
			WithDetail("required_stages", required)
	case errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest), errors.Is(err, entities.ErrValidation):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrAlreadySettled):
		return pkg.NewDomainErrorSimple("ALREADY_SETTLED", "Assessment already settled", http.StatusConflict)
	case errors.Is(err, entities.ErrNotFound):
		return pkg.NewDomainError("NOT_FOUND", capitalize(err.Error()), err, http.StatusNotFound)
	case errors.Is(err, entities.ErrConcurrentModification):
		return pkg.NewDomainError("CONCURRENT_MODIFICATION", "The assessment changed concurrently, reload and retry", err, http.StatusConflict)
	case errors.Is(err, entities.ErrReconciliationInvariant):
		return pkg.NewDomainError("RECONCILIATION_INVARIANT", "Reconciliation invariant violated", err, http.StatusInternalServerError)
	case errors.Is(err, entities.ErrPersistence):
		return pkg.NewDomainError("PERSISTENCE_ERROR", "Storage unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeError(c *gin.Context, err error) {
	appErr := mapError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
