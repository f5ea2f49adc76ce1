package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		FirstName: "Asha",
		LastName:  "Rao",
		Line1:     "14 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Postcode:  "560001",
		Country:   "IN",
		Phone:     "9876543210",
		Email:     "asha@example.com",
	}
}

func TestAddressValid(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Address("shipping", validAddress(), false))
	require.NoError(t, v.Address("billing", validAddress(), true))
}

func TestAddressMobileRules(t *testing.T) {
	v := NewValidator()
	cases := map[string]bool{
		"9876543210":  true,
		"6000000000":  true,
		"5876543210":  false,
		"98765432":    false,
		"98765432101": false,
		"98765 43210": false,
	}
	for phone, ok := range cases {
		a := validAddress()
		a.Phone = phone
		err := v.Address("shipping", a, false)
		if ok {
			require.NoError(t, err, phone)
		} else {
			require.Error(t, err, phone)
			require.Contains(t, err.Error(), "mobile")
		}
	}
}

func TestAddressPincodeRules(t *testing.T) {
	v := NewValidator()
	for _, bad := range []string{"56000", "5600011", "56O001", ""} {
		a := validAddress()
		a.Postcode = bad
		require.Error(t, v.Address("shipping", a, false), bad)
	}
}

func TestAddressEmailRequiredForBillingOnly(t *testing.T) {
	v := NewValidator()
	a := validAddress()
	a.Email = ""
	require.NoError(t, v.Address("shipping", a, false))

	err := v.Address("billing", a, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "email")
}

func TestAddressEmailFormat(t *testing.T) {
	v := NewValidator()
	a := validAddress()
	a.Email = "not-an-email"
	require.Error(t, v.Address("billing", a, true))
}

func TestAddressRequiredFields(t *testing.T) {
	v := NewValidator()
	a := validAddress()
	a.City = ""
	err := v.Address("shipping", a, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "city")
}
