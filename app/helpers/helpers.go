package helpers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID     contextKey = "userID"
	ContextKeyCartID     contextKey = "cartID"
	ContextKeyUser       contextKey = "userObject"
	CartCountKey         contextKey = "cart_count"
	ContextKeyCategories contextKey = "categories"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// NewValidator reports field errors under the form field name and knows the "username" rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatalf("NewValidator: failed to register username rule: %v", err)
	}
	return v
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		label := fieldLabel(field)
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", label)
		case "email":
			errorMessages[field] = "Enter a valid email address."
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", label)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", label, err.Param())
		case "eqfield":
			errorMessages[field] = "The two password fields didn't match."
		case "username":
			errorMessages[field] = "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s check.", label, err.Tag())
		}
	}
	return errorMessages
}

func fieldLabel(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		log.Printf("PasswordCompare: password does not match or error: %v", err)
		return false
	}
	return true
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return ""
	}
	return string(bytes)
}

// RedirectWithMessage sends the browser to target carrying a one-shot status message.
func RedirectWithMessage(w http.ResponseWriter, r *http.Request, target, status, message string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, fmt.Sprintf("%s%sstatus=%s&message=%s", target, sep, url.QueryEscape(status), url.QueryEscape(message)), http.StatusSeeOther)
}
