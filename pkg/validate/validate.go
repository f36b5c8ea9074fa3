// Package validate runs struct-tag validation with go-playground/validator
// and flattens the result into a field → message map keyed by JSON names.
//
//	type RegisterInput struct {
//	    Email    string `json:"email"    validate:"required,email"`
//	    Username string `json:"username" validate:"required,min=3,max=50"`
//	}
//
//	if errs := validate.Struct(input); validate.HasErrors(errs) {
//	    response.ValidationError(w, errs)
//	}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
	})
	return v
}

// Struct validates s. The returned map is empty when s is valid.
func Struct(s interface{}) map[string]string {
	errs := map[string]string{}

	err := instance().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, seen := errs[field]; !seen {
			errs[field] = message(fe)
		}
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", f)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", f)
	case "min":
		if isString(fe) {
			return fmt.Sprintf("The %s must be at least %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", f, fe.Param())
	case "max":
		if isString(fe) {
			return fmt.Sprintf("The %s may not be greater than %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", f, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", f, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", f, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", f, fe.Param())
	case "ne":
		return fmt.Sprintf("The %s must not be %s.", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", f)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", f)
	case "decimal":
		return fmt.Sprintf("The %s must be a decimal amount.", f)
	default:
		return fmt.Sprintf("The %s is invalid (%s).", f, fe.Tag())
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

// fieldPath drops the root struct name: "RegisterInput.email" → "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}
