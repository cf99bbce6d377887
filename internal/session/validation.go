package session

import (
	"fmt"
	"regexp"
	"strings"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates client-side input failures. It is returned
// before any network call is issued.
type ValidationError struct {
	Fields []FieldError
}

// Error lists the failing fields and their messages.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateLogin checks login inputs. Email format and password presence
// must pass before the login endpoint is contacted.
func ValidateLogin(email, password string) error {
	v := &ValidationError{}
	validateEmail(v, email)
	if password == "" {
		v.add("password", "password is required")
	}
	return v.orNil()
}

// RegisterParams are the inputs to Manager.Register.
type RegisterParams struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string

	// TenantID targets an existing tenant; TenantName requests a new one.
	// At most one may be set.
	TenantID   string
	TenantName string
	RoleID     string
}

// Validate checks registration inputs client-side.
func (p RegisterParams) Validate() error {
	v := &ValidationError{}
	validateEmail(v, p.Email)
	validatePassword(v, p.Password)
	if p.ConfirmPassword != p.Password {
		v.add("confirmPassword", "passwords do not match")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		v.add("firstName", "first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		v.add("lastName", "last name is required")
	}
	if p.TenantID != "" && p.TenantName != "" {
		v.add("tenant", "specify an existing tenant or a new tenant name, not both")
	}
	return v.orNil()
}

// ValidatePasswordChange checks password rotation inputs client-side.
func ValidatePasswordChange(current, next string) error {
	v := &ValidationError{}
	if current == "" {
		v.add("currentPassword", "current password is required")
	}
	validatePasswordField(v, "newPassword", next)
	if current != "" && current == next {
		v.add("newPassword", "new password must differ from the current one")
	}
	return v.orNil()
}

func validateEmail(v *ValidationError, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		v.add("email", "email is required")
		return
	}
	if !emailPattern.MatchString(email) {
		v.add("email", "invalid email format")
	}
}

func validatePassword(v *ValidationError, password string) {
	validatePasswordField(v, "password", password)
}

func validatePasswordField(v *ValidationError, field, password string) {
	if password == "" {
		v.add(field, "password is required")
		return
	}
	if len(password) < minPasswordLength {
		v.add(field, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
}
