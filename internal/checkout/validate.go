package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/kirana-labs/storefront-checkout/internal/common"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Address is a settlement address. Email is optional on shipping addresses
// and mandatory on billing addresses.
type Address struct {
	FirstName string `validate:"required"`
	LastName  string
	Line1     string `validate:"required"`
	Line2     string
	City      string `validate:"required"`
	State     string `validate:"required"`
	Postcode  string `validate:"required,pincode"`
	Country   string `validate:"required"`
	Phone     string `validate:"required,inmobile"`
	Email     string `validate:"omitempty,email"`
}

// Validator wraps go-playground validation with the storefront's custom
// mobile-number and postal-code rules.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the custom tag rules. Registration errors only occur
// for empty tag names, so they are treated as programmer error.
func NewValidator() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("inmobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// Address validates a settlement address. requireEmail is set for billing
// addresses, which need a contact address for the order receipt.
func (av *Validator) Address(kind string, a Address, requireEmail bool) error {
	if requireEmail && strings.TrimSpace(a.Email) == "" {
		return common.NewAppError("invalid_address", fmt.Sprintf("%s address: email is required", kind), nil)
	}
	err := av.v.Struct(a)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return common.NewAppError("invalid_address", fmt.Sprintf("%s address is invalid", kind), err)
	}
	first := fieldErrs[0]
	return common.NewAppError("invalid_address", fmt.Sprintf("%s address: %s", kind, fieldMessage(first)), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "inmobile":
		return "phone must be a 10 digit Indian mobile number"
	case "pincode":
		return "postcode must be a 6 digit PIN code"
	case "email":
		return "email is not a valid address"
	default:
		return field + " is invalid"
	}
}
