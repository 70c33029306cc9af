package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PasswordMinLength is the minimum length of a new password
const PasswordMinLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates a struct using its validate tags
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// IsEmail reports whether s is a well-formed email address
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// Failed reports whether any rule with the given tag failed in err
func Failed(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
