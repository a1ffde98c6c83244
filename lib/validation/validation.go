package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid marks request input that failed validation.
var ErrInvalid = errors.New("invalid request")

const DefaultRating = 5

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// SignUpRequest is the body of a registration request.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=200"`
	Username string `json:"username" validate:"max=100"`
}

// SignInRequest is the body of a login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ValidateStruct checks the validate tags of s and reports every failing field.
func ValidateStruct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ParseRating accepts a number or numeric string between 1 and 5. An empty
// value yields DefaultRating.
func ParseRating(raw string) (int, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" || raw == "null" {
		return DefaultRating, nil
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: rating must be a number", ErrInvalid)
	}
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	}
	return rating, nil
}

// WriteError writes a validation error response to the HTTP response writer.
// It takes a response writer, error message, and HTTP status code.
func WriteError(w http.ResponseWriter, err error, status int) {
	WriteJSON(w, map[string]string{"error": err.Error()}, status)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", slog.Any("error", err))
	}
}
