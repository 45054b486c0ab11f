// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"speedo-transfer/internal/api/types"
	"speedo-transfer/internal/domain"
	"speedo-transfer/internal/util"
)

// DefaultTimeout bounds every request served by the router.
const DefaultTimeout = 30 * time.Second

var validate = newValidator()

// newValidator builds the request validator: `positive` checks a decimal.Decimal
// exactly, `currency` accepts any supported code case-insensitively, and errors
// are reported under JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})

	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCurrency(fl.Field().String())
		return err == nil
	})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithJSON(w, logger, http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			fields := make(map[string]string, len(errs))
			for _, e := range errs {
				fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
			}
			respondWithJSON(w, logger, http.StatusBadRequest, types.ErrorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		respondWithJSON(w, logger, http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// Helper function to send JSON responses.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode, message := statusFor(err)
	if statusCode == http.StatusInternalServerError {
		logger.Error("Unhandled service error", "error", err)
	}
	respondWithJSON(w, logger, statusCode, types.ErrorResponse{Error: message})
}

// statusFor maps a service error kind to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case util.IsError(err, util.ErrInvalidInput):
		return http.StatusBadRequest, err.Error() // built from request fields only
	case util.IsError(err, util.ErrUnauthorized):
		return http.StatusUnauthorized, util.ErrUnauthorized.Error()
	case util.IsError(err, util.ErrInsufficientFunds):
		return http.StatusPaymentRequired, util.ErrInsufficientFunds.Error()
	case util.IsError(err, util.ErrUserNotFound):
		return http.StatusNotFound, util.ErrUserNotFound.Error()
	case util.IsError(err, util.ErrReceiverAccountNotFound):
		return http.StatusNotFound, util.ErrReceiverAccountNotFound.Error()
	case util.IsError(err, util.ErrSenderAccountNotFound):
		return http.StatusNotFound, util.ErrSenderAccountNotFound.Error()
	case util.IsError(err, util.ErrReceiverUserNotFound):
		return http.StatusNotFound, util.ErrReceiverUserNotFound.Error()
	case util.IsError(err, util.ErrRateUnavailable):
		return http.StatusServiceUnavailable, util.ErrRateUnavailable.Error()
	case util.IsError(err, util.ErrPersistenceFailure):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
