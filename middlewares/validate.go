package middlewares

import (
	"reflect"
	"strings"

	"obras-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Validator wraps the shared validator instance with the custom tags used by the DTOs:
//
//	phone  a number valid for the configured region (or in international form)
//	money  a non-negative amount with at most 2 decimals
//	qty    a positive quantity with at most 3 decimals
//	stock  a non-negative quantity with at most 3 decimals
type Validator struct {
	validate *validator.Validate
	region   string
}

func NewValidator(region string) *Validator {
	v := validator.New()
	// Report json names so error maps match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// Decimals are validated through their string form.
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	out := &Validator{validate: v, region: region}
	_ = v.RegisterValidation("phone", out.validatePhone)
	_ = v.RegisterValidation("money", validateDecimal(false, 2))
	_ = v.RegisterValidation("qty", validateDecimal(true, 3))
	_ = v.RegisterValidation("stock", validateDecimal(false, 3))
	return out
}

func (v *Validator) validatePhone(fl validator.FieldLevel) bool {
	num, err := libphonenumber.Parse(fl.Field().String(), v.region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}

func validateDecimal(positive bool, places int32) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		if positive && !d.IsPositive() {
			return false
		}
		if d.IsNegative() {
			return false
		}
		return utils.FitsScale(d, places)
	}
}

// BindAndValidate parses the request body into dst, trims its strings and validates it.
// Returns fiber.ErrBadRequest for parse errors and a validator.ValidationErrors for validation issues.
func (v *Validator) BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(dst)
	return v.validate.Struct(dst)
}

// ValidateStruct validates any struct value using the shared validator instance.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}
