package model

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Code format rules enforced before any upstream call is made.
var (
	snomedPattern = regexp.MustCompile(`^[0-9]{6,}$`)
	icd10Pattern  = regexp.MustCompile(`^[A-Z][0-9]{1,2}(\.[0-9]{1,4})?$`)
)

// IsSNOMEDCode reports whether s is an acceptable SNOMED concept code.
func IsSNOMEDCode(s string) bool {
	return snomedPattern.MatchString(s)
}

// IsICD10Code reports whether s is an acceptable ICD-10 code, e.g. "J45.909".
func IsICD10Code(s string) bool {
	return icd10Pattern.MatchString(s)
}

// IsStrictRFC3339 reports whether s parses as RFC 3339 and formats back to the
// identical string. The medication form demands exact round-trip equality.
func IsStrictRFC3339(s string) bool {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return false
	}
	return t.Format(time.RFC3339) == s
}

// RegisterValidations installs the custom binding rules on gin's validator.
// Call once at startup before handling requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("snomed", func(fl validator.FieldLevel) bool {
		return IsSNOMEDCode(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("icd10", func(fl validator.FieldLevel) bool {
		return IsICD10Code(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("rfc3339strict", func(fl validator.FieldLevel) bool {
		return IsStrictRFC3339(fl.Field().String())
	})
}
