// Package validate holds the shared validator instance and its custom rules.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/inkwell/internal/apperr"
)

var v = New()

// Now is the clock used by notfuture.
var Now = time.Now

// New returns a validator with the custom rules registered and json field names in errors.
func New() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	register(val)
	return val
}

func register(val *validator.Validate) {
	_ = val.RegisterValidation("notfuture", notFuture)
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// RegisterGin adds the custom rules to gin's binding validator.
func RegisterGin() error {
	val, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	register(val)
	return nil
}

// notFuture accepts years (integers) up to the current year and times up to now.
func notFuture(fl validator.FieldLevel) bool {
	now := Now()
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int() <= int64(now.Year())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.Uint() <= uint64(now.Year())
	}
	if t, ok := f.Interface().(time.Time); ok {
		return !t.After(now)
	}
	return false
}

// Struct validates s and reports failures as apperr.ErrValidation.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return apperr.Validation("%s", Describe(verrs))
}

// Describe renders validation errors as "field: reason" pairs.
func Describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), reason(fe)))
	}
	return strings.Join(msgs, "; ")
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "notfuture":
		return "must not be in the future"
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
