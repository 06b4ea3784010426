package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"user", "admin", "supervisor", "employer"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Fuel type validation
	validate.RegisterValidation("fuel_type", func(fl validator.FieldLevel) bool {
		fuel := fl.Field().String()
		validTypes := []string{"PETROL", "DIESEL", "LPG", "CNG"}
		for _, t := range validTypes {
			if fuel == t {
				return true
			}
		}
		return false
	})

	// Gift category validation
	validate.RegisterValidation("gift_category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"Beverage", "Food", "Electronics", "Vouchers", "Other"}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})

	// Payment type validation
	validate.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
		payment := fl.Field().String()
		validPayments := []string{"Cash", "Card", "UPI", "Credit", ""}
		for _, p := range validPayments {
			if payment == p {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "role":
			errors[field] = "Invalid role. Must be: user, admin, supervisor, or employer"
		case "fuel_type":
			errors[field] = "Invalid fuel type. Must be: PETROL, DIESEL, LPG, or CNG"
		case "gift_category":
			errors[field] = "Invalid category. Must be: Beverage, Food, Electronics, Vouchers, or Other"
		case "payment":
			errors[field] = "Invalid payment type. Must be: Cash, Card, UPI, or Credit"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
