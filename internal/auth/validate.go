package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse phone numbers without country code.
const DefaultPhoneRegion = "US"

// RegisterForm is the registration form as entered by the user.
type RegisterForm struct {
	FirstName       string `form:"firstName"       validate:"required"`
	LastName        string `form:"lastName"        validate:"required"`
	Email           string `form:"email"           validate:"required,email"`
	PhoneNumber     string `form:"phoneNumber"     validate:"required,min=10,phone"`
	Password        string `form:"password"        validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

// normalize trims every field except the passwords.
func (f RegisterForm) normalize() RegisterForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)

	return f
}

// messages maps field and failed tag to the text shown to the user.
var messages = map[string]map[string]string{ //nolint:gochecknoglobals
	"FirstName": {"required": "First name is required"},
	"LastName":  {"required": "Last name is required"},
	"Email": {
		"required": "Email is required",
		"email":    "Email is invalid",
	},
	"PhoneNumber": {
		"required": "Phone number is required",
		"min":      "Phone number must be at least 10 digits",
		"phone":    "Phone number is invalid",
	},
	"Password": {
		"required": "Password is required",
		"min":      "Password must be at least 8 characters long",
	},
	"ConfirmPassword": {"eqfield": "Passwords do not match"},
}

var fieldNames = map[string]string{ //nolint:gochecknoglobals
	"FirstName":       "firstName",
	"LastName":        "lastName",
	"Email":           "email",
	"PhoneNumber":     "phoneNumber",
	"Password":        "password",
	"ConfirmPassword": "confirmPassword",
}

func newValidator(region string) *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		num, err := phonenumbers.Parse(fl.Field().String(), region)
		if err != nil {
			return false
		}

		return phonenumbers.IsPossibleNumber(num)
	})

	return v
}

// validateForm returns the first violated rule in field order, or nil.
func validateForm(v *validator.Validate, f RegisterForm) *ValidationError {
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := verrs[0]

	msg, ok := messages[first.StructField()][first.Tag()]
	if !ok {
		msg = first.Error()
	}

	return &ValidationError{Field: fieldNames[first.StructField()], Message: msg}
}
