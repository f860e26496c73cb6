// Package validation implements the submission schema rules: required
// contact fields, 1-10 integer metrics, and the allow-listed field merge
// used by partial updates. Updates are always validated against the merged
// record, never against the partial payload alone.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/parisxmas/health-index-server/internal/models"
)

// Error names the offending field and why it was rejected.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize builds and fully validates a new submission from a raw payload.
// Unknown keys are rejected, so clients cannot set _id or submittedAt.
func Normalize(payload map[string]any) (*models.Submission, error) {
	sub := &models.Submission{}
	if err := apply(sub, payload); err != nil {
		return nil, err
	}
	if err := check(sub); err != nil {
		return nil, err
	}
	// Absent categories mean an empty list, not null.
	if sub.BusinessCategories == nil {
		sub.BusinessCategories = []string{}
	}
	return sub, nil
}

// Merge overlays only the keys present in payload onto a copy of base and
// validates the merged record in full. Base is never mutated, so a rejected
// update cannot leave a half-applied record behind.
func Merge(base *models.Submission, payload map[string]any) (*models.Submission, error) {
	merged := *base
	if base.BusinessCategories != nil {
		merged.BusinessCategories = append([]string{}, base.BusinessCategories...)
	}
	if err := apply(&merged, payload); err != nil {
		return nil, err
	}
	if err := check(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// apply copies allow-listed payload keys onto sub, coercing types.
func apply(sub *models.Submission, payload map[string]any) error {
	for key, raw := range payload {
		var err error
		switch key {
		case "name":
			err = stringField(&sub.Name, key, raw)
		case "companyName":
			err = stringField(&sub.CompanyName, key, raw)
		case "address":
			err = stringField(&sub.Address, key, raw)
		case "phoneNumber":
			err = stringField(&sub.PhoneNumber, key, raw)
		case "email":
			err = stringField(&sub.Email, key, raw)
		case "website":
			err = stringField(&sub.Website, key, raw)
		case "businessType":
			err = stringField(&sub.BusinessType, key, raw)
		case "businessCategories":
			err = categoriesField(&sub.BusinessCategories, key, raw)
		case "qualityIndex":
			err = metricField(&sub.QualityIndex, key, raw)
		case "costEfficiency":
			err = metricField(&sub.CostEfficiency, key, raw)
		case "deliveryTimeliness":
			err = metricField(&sub.DeliveryTimeliness, key, raw)
		case "customerSatisfaction":
			err = metricField(&sub.CustomerSatisfaction, key, raw)
		case "processStability":
			err = metricField(&sub.ProcessStability, key, raw)
		case "employeeHealth":
			err = metricField(&sub.EmployeeHealth, key, raw)
		default:
			err = &Error{Field: key, Reason: "is not a submission field"}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func stringField(dst *string, field string, raw any) error {
	s, ok := raw.(string)
	if !ok {
		return &Error{Field: field, Reason: "must be a string"}
	}
	*dst = strings.TrimSpace(s)
	return nil
}

func categoriesField(dst *[]string, field string, raw any) error {
	if raw == nil {
		*dst = nil
		return nil
	}
	switch v := raw.(type) {
	case []string:
		*dst = append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return &Error{Field: field, Reason: "must be a list of strings"}
			}
			out = append(out, s)
		}
		*dst = out
	default:
		return &Error{Field: field, Reason: "must be a list of strings"}
	}
	return nil
}

func metricField(dst *int, field string, raw any) error {
	// JSON numbers decode as float64; reject anything non-integral.
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) {
		return &Error{Field: field, Reason: fmt.Sprintf("must be an integer (got %v)", raw)}
	}
	*dst = int(f)
	return nil
}

// check runs the struct rules plus the businessType catalog check.
func check(sub *models.Submission) error {
	if err := validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fromFieldError(verrs[0])
		}
		return err
	}
	if !models.ValidBusinessType(sub.BusinessType) {
		return &Error{
			Field:  "businessType",
			Reason: fmt.Sprintf("must be one of %q", models.BusinessTypes),
		}
	}
	return nil
}

func fromFieldError(fe validator.FieldError) *Error {
	switch fe.Tag() {
	case "required":
		return &Error{Field: fe.Field(), Reason: "is required"}
	case "min", "max":
		return &Error{Field: fe.Field(), Reason: fmt.Sprintf("must be between 1 and 10 (got %v)", fe.Value())}
	}
	return &Error{Field: fe.Field(), Reason: "is invalid"}
}
