package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/chargelog/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks an effective analysis config and reports the first bad
// setting by its flag name.
func Validate(cfg model.AnalyzeConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return errors.New(formatFieldError(fieldErrs[0]))
}

func formatFieldError(err validator.FieldError) string {
	name := err.Field()
	if name == "file" {
		return "input file is required"
	}
	flag := "--" + name
	param := err.Param()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", flag)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", flag, strings.ReplaceAll(param, " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be > %s", flag, param)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", flag, param)
	case "lte":
		return fmt.Sprintf("%s must be <= %s", flag, param)
	default:
		return fmt.Sprintf("%s failed %s validation", flag, err.Tag())
	}
}
