package customer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"customer-api/internal/pkg/apperrors"
)

var (
	codePattern  = regexp.MustCompile(`^C[0-9]{3,}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,20}$`)
)

const (
	msgCodeRequired  = "customer code is required"
	msgCodeFormat    = "customer code must be 'C' followed by at least 3 digits, 3-20 characters"
	msgNameRequired  = "full name is required"
	msgNameLength    = "full name must be between 2 and 100 characters"
	msgEmailRequired = "email is required"
	msgEmailFormat   = "email must be a valid email address"
	msgPhoneFormat   = "phone must be 10-20 digits with an optional leading '+'"
	msgAddressLength = "address must not exceed 500 characters"
	msgStatusInvalid = "status must be one of ACTIVE, INACTIVE"
)

func checkCode(code string) (string, bool) {
	if strings.TrimSpace(code) == "" {
		return msgCodeRequired, false
	}
	if len(code) > 20 || !codePattern.MatchString(code) {
		return msgCodeFormat, false
	}
	return "", true
}

func checkFullName(name string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return msgNameRequired, false
	}
	// Length bounds count characters, not bytes, so multibyte names are
	// measured the same way the database column is.
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return msgNameLength, false
	}
	return "", true
}

func checkEmail(email string) (string, bool) {
	if strings.TrimSpace(email) == "" {
		return msgEmailRequired, false
	}
	if !emailPattern.MatchString(email) {
		return msgEmailFormat, false
	}
	return "", true
}

func checkPhone(phone string) (string, bool) {
	if !phonePattern.MatchString(phone) {
		return msgPhoneFormat, false
	}
	return "", true
}

func checkAddress(address string) (string, bool) {
	if utf8.RuneCountInString(address) > 500 {
		return msgAddressLength, false
	}
	return "", true
}

// Validate checks every format rule and aggregates the violations; it never
// touches the store, so uniqueness is out of scope here.
func (d Draft) Validate() *apperrors.ValidationError {
	ve := &apperrors.ValidationError{}

	if msg, ok := checkCode(d.Code); !ok {
		ve.Add("customerCode", msg)
	}
	if msg, ok := checkFullName(d.FullName); !ok {
		ve.Add("fullName", msg)
	}
	if msg, ok := checkEmail(d.Email); !ok {
		ve.Add("email", msg)
	}
	if d.Phone != nil && *d.Phone != "" {
		if msg, ok := checkPhone(*d.Phone); !ok {
			ve.Add("phone", msg)
		}
	}
	if d.Address != nil {
		if msg, ok := checkAddress(*d.Address); !ok {
			ve.Add("address", msg)
		}
	}
	if d.Status != "" {
		if _, ok := ParseStatus(string(d.Status)); !ok {
			ve.Add("status", msgStatusInvalid)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Validate checks only the fields present in the patch; absent fields are
// not errors.
func (p Patch) Validate() *apperrors.ValidationError {
	ve := &apperrors.ValidationError{}

	if p.Code != nil {
		if msg, ok := checkCode(*p.Code); !ok {
			ve.Add("customerCode", msg)
		}
	}
	if p.FullName != nil {
		if msg, ok := checkFullName(*p.FullName); !ok {
			ve.Add("fullName", msg)
		}
	}
	if p.Email != nil {
		if msg, ok := checkEmail(*p.Email); !ok {
			ve.Add("email", msg)
		}
	}
	if p.Phone != nil && *p.Phone != "" {
		if msg, ok := checkPhone(*p.Phone); !ok {
			ve.Add("phone", msg)
		}
	}
	if p.Address != nil {
		if msg, ok := checkAddress(*p.Address); !ok {
			ve.Add("address", msg)
		}
	}
	if p.Status != nil {
		if _, ok := ParseStatus(*p.Status); !ok {
			ve.Add("status", msgStatusInvalid)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
