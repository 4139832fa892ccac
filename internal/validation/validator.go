package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "blogapi/internal/errors"
)

// StrongPasswordMessage is reported when a password fails the strength rule.
const StrongPasswordMessage = "Password must contain at least 8 characters, with at least one uppercase letter, one lowercase letter, one number, and one special character."

const passwordSpecials = "@$!%*?&"

// messages maps "<json field>.<tag>" to the text returned to clients.
var messages = map[string]string{
	"name.required":           "Name is required",
	"name.min":                "Name must be at least 3 characters long.",
	"name.max":                "Name must be at most 50 characters long.",
	"email.required":          "Email is required",
	"email.email":             "Invalid email address",
	"password.required":       "Password is required.",
	"password.strongpassword": StrongPasswordMessage,
	"title.required":          "Title is required.",
	"title.min":               "Title must be at least 5 characters long.",
	"title.max":               "Title must be at most 200 characters long.",
	"content.required":        "Content is required.",
	"content.min":             "Content must be at least 15 characters long.",
	"content.max":             "Content must be at most 5000 characters long.",
	"page.min":                "Page must be at least 1.",
	"limit.min":               "Limit must be at least 1.",
}

// FieldsValidator is implemented by requests whose rules span several fields.
type FieldsValidator interface {
	ValidateFields() error
}

// CustomValidator wraps validator for Echo. It reports only the first
// violated rule as an *apperrors.ValidationError.
type CustomValidator struct {
	validator *validator.Validate
}

// New builds the validator with json field names and the strongpassword rule.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return err
	}
	if fv, ok := i.(FieldsValidator); ok {
		return fv.ValidateFields()
	}
	return nil
}

func toValidationError(fe validator.FieldError) *apperrors.ValidationError {
	field := fe.Field()
	tag := fe.Tag()
	// An emptied optional string reads as missing rather than too short.
	if tag == "min" && fe.Value() == "" {
		if msg, ok := messages[field+".required"]; ok {
			return apperrors.NewValidationError(field, msg)
		}
	}
	if msg, ok := messages[field+"."+tag]; ok {
		return apperrors.NewValidationError(field, msg)
	}
	return apperrors.NewValidationError(field, fmt.Sprintf("%s failed on the '%s' rule", field, tag))
}

// IsStrongPassword reports whether password has at least 8 characters drawn
// from letters, digits and @$!%*?&, including one of each class.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
