package submission

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"agentzone/internal/tool"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("category", validateCategory)
	validate.RegisterValidation("pricing", validatePricing)
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := tool.ParseCategory(fl.Field().String())
	return err == nil
}

func validatePricing(fl validator.FieldLevel) bool {
	_, err := tool.ParsePricing(fl.Field().String())
	return err == nil
}

// ValidateStruct returns one FieldError per failing field, or nil.
func ValidateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	var out ValidationErrors
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			if fe.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must have at most %s entries", field, param)
			} else {
				message = fmt.Sprintf("%s must be at most %s characters", field, param)
			}
		case "http_url":
			message = fmt.Sprintf("%s must be a valid http(s) URL", field)
		case "category":
			message = fmt.Sprintf("%s must be one of the directory categories", field)
		case "pricing":
			message = fmt.Sprintf("%s must be one of Free, Paid, Freemium", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		out = append(out, FieldError{Field: field, Message: message})
	}
	return out
}
