package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrValidation reports a payload that decoded but broke the wire schema.
	ErrValidation = errors.New("validation failed")

	// ErrBinding reports a body or query string that could not be decoded.
	ErrBinding = errors.New("binding failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, configured on first use.
//
// Struct tags only express the wire schema (presence, nominal ranges).
// Identifier syntax and domain bounds are left to the mapper so that its
// validation order decides which error a client sees.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		validate.RegisterCustomTypeFunc(dateValue, Date{})

		_ = validate.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})

	return validate
}

// jsonName reports fields under their JSON names.
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

// decimalValue lets numeric tags such as gte=0 apply to decimal amounts.
func decimalValue(v reflect.Value) any {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}

	f, _ := d.Float64()

	return f
}

// dateValue lets required apply to calendar dates.
func dateValue(v reflect.Value) any {
	d, ok := v.Interface().(Date)
	if !ok {
		return nil
	}

	return d.Time()
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors lists each failed field under its JSON path, e.g.
// "lines[0].quantity". Errors of other kinds yield an empty map.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
	}

	return fields
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// fieldPath turns "CreateOrderRequest.lines[0].bookId" into "lines[0].bookId".
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}

	return fe.Field()
}

var tagMessages = map[string]func(fe validator.FieldError) string{
	"required": func(validator.FieldError) string { return "this field is required" },
	"notempty": func(validator.FieldError) string { return "must not be empty" },
	"gte":      func(fe validator.FieldError) string { return "must be greater than or equal to " + fe.Param() },
	"lte":      func(fe validator.FieldError) string { return "must be less than or equal to " + fe.Param() },
	"oneof":    func(fe validator.FieldError) string { return "must be one of: " + fe.Param() },
	"min":      func(fe validator.FieldError) string { return "must be at least " + fe.Param() + unit(fe.Kind()) },
	"max":      func(fe validator.FieldError) string { return "must be at most " + fe.Param() + unit(fe.Kind()) },
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg(fe)
	}

	return "failed validation: " + fe.Tag()
}

// unit names what min and max count for the field's kind.
func unit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
