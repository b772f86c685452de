package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, with a message fit to show a user.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures from Validate.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their label tag so messages read naturally.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		mustRegister(v, "emailaddr", IsValidEmail)
		mustRegister(v, "httpurl", IsValidHTTPURL)
		mustRegister(v, "role", IsValidRole)
		mustRegister(v, "registerrole", IsValidRegisterableRole)
		mustRegister(v, "contenttype", IsValidContentType)
		mustRegister(v, "regstatus", IsValidRegistrationStatus)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("inputval: register %s: %v", tag, err))
	}
}

// Validate runs the `validate` struct tags on s.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email", "emailaddr":
		return "A valid email address is required."
	case "httpurl":
		return label + " must be an http or https URL."
	case "role", "registerrole":
		return label + " is not an allowed role."
	case "contenttype":
		return label + " must be one of video, pdf, ppt, quiz."
	case "regstatus":
		return label + " must be pending, approved, or rejected."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	}
	return label + " is invalid."
}
