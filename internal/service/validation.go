package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return validationf("%v", err)
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return validationf("%s is required", fe.Field())
	case "eqfield":
		return validationf("passwords do not match")
	case "nefield":
		return validationf("%s must not be the same as %s", fe.Field(), fe.Param())
	case "oneof":
		return validationf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return validationf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return validationf("%s is invalid", fe.Field())
}
