package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// fieldErrors turns validator output into a field -> message map.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["request"] = err.Error()
		return out
	}
	for _, fe := range ves {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "The " + fe.Field() + " field is required."
	case "oneof":
		return "The selected " + fe.Field() + " is invalid. Allowed: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "max":
		return "The " + fe.Field() + " field must not be greater than " + fe.Param() + "."
	case "min", "gt":
		return "The " + fe.Field() + " field must be at least " + fe.Param() + "."
	}
	return "The " + fe.Field() + " field is invalid."
}

type validationResponse struct {
	Errors map[string]string `json:"errors"`
}

func unprocessable(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, validationResponse{Errors: fieldErrors(err)})
}
