package intake

import (
	"fmt"
	"strconv"
	"strings"

	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/platform/phone"
	"leadgenius_backend/platform/validator"
)

// Checker validates leads against the intake catalogue.
type Checker struct {
	val    *validator.Validator
	region string
}

// NewChecker creates a checker. region is the default phone region for
// numbers written without a country code.
func NewChecker(val *validator.Validator, region string) *Checker {
	if region == "" {
		region = phone.DefaultRegion
	}
	return &Checker{val: val, region: region}
}

// Check returns field name → message for every problem in attrs, or nil.
// Attributes outside the catalogue are ignored.
func (c *Checker) Check(dataset domain.DatasetType, attrs domain.Attributes) map[string]string {
	attrs = attrs.Canonicalize()
	problems := map[string]string{}

	for _, f := range Fields(dataset) {
		value, present := attrs.Get(f.Name)
		if !present || isBlank(value) {
			if f.Required {
				problems[f.Name] = f.Label + " is required"
			}
			continue
		}
		if msg := c.checkValue(f, value); msg != "" {
			problems[f.Name] = msg
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func (c *Checker) checkValue(f Field, value any) string {
	switch f.Kind {
	case KindNumber, KindRange:
		n, ok := asNumber(value)
		if !ok {
			return f.Label + " must be a number"
		}
		if f.Kind == KindRange && f.Min != nil && f.Max != nil {
			tag := fmt.Sprintf("gte=%s,lte=%s", domain.FormatNumber(*f.Min), domain.FormatNumber(*f.Max))
			if c.val.Var(n, tag) != nil {
				return fmt.Sprintf("%s must be between %s and %s", f.Label, domain.FormatNumber(*f.Min), domain.FormatNumber(*f.Max))
			}
		}
	case KindSelect:
		s, ok := value.(string)
		if !ok || c.val.Var(s, "oneof="+strings.Join(f.Options, " ")) != nil {
			return f.Label + " must be one of: " + strings.Join(f.Options, ", ")
		}
	case KindEmail:
		s, ok := value.(string)
		if !ok || c.val.Var(strings.TrimSpace(s), "email") != nil {
			return f.Label + " must be a valid email address"
		}
	case KindTel:
		s, ok := value.(string)
		if !ok || !phone.IsValid(s, c.region) {
			return f.Label + " must be a valid phone number"
		}
	}
	return ""
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// asNumber accepts JSON numbers and numeric strings, as submitted by HTML forms.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
