package waybill

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/domain/templates"
)

var phoneRE = regexp.MustCompile(`^[0-9+()\-\s.]{5,20}$`)

// Validator checks custom data and item rows against a template schema.
type Validator struct {
	rules *RuleEngine
}

// NewValidator creates a validator. rules may be nil to skip rule checks.
func NewValidator(rules *RuleEngine) *Validator {
	return &Validator{rules: rules}
}

// Validate returns ValidationFailed with one message per offending form key
// (custom_{section}_{field} or items[i][column]).
func (v *Validator) Validate(sections templates.Sections, columns templates.Columns, data entity.Attributes, rows []Row) error {
	fields := map[string]string{}

	for _, sectionKey := range sections.Keys() {
		section := sections[sectionKey]
		for _, fieldKey := range section.FieldKeys() {
			f := section.Fields[fieldKey]
			formKey := customPrefix + sectionKey + "_" + fieldKey
			value := strings.TrimSpace(GetCustomFieldValue(data, sectionKey, fieldKey))

			if value == "" {
				if f.Required {
					fields[formKey] = fmt.Sprintf("%s is required", f.Label)
				}
				continue
			}
			if msg := v.check(f.Type, f.Options, f.Rule, f.RuleMessage, f.Label, value); msg != "" {
				fields[formKey] = msg
			}
		}
	}

	for _, row := range rows {
		for _, c := range columns {
			value := strings.TrimSpace(row.Data.GetString(c.Name))
			if value == "" {
				continue
			}
			if msg := v.check(c.Type, nil, c.Rule, c.RuleMessage, c.Label, value); msg != "" {
				fields[fmt.Sprintf("items[%d][%s]", row.RowOrder, c.Name)] = msg
			}
		}
	}

	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

func (v *Validator) check(ft templates.FieldType, options map[string]string, rule, ruleMessage, label, value string) string {
	switch ft {
	case templates.FieldNumber:
		if _, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64); err != nil {
			return label + " must be a number"
		}
	case templates.FieldDate:
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return label + " must be a date (YYYY-MM-DD)"
		}
	case templates.FieldEmail:
		if _, err := mail.ParseAddress(value); err != nil {
			return label + " must be a valid email"
		}
	case templates.FieldPhone:
		if !phoneRE.MatchString(value) {
			return label + " must be a valid phone number"
		}
	case templates.FieldSelect:
		if _, ok := options[value]; !ok && len(options) > 0 {
			return label + " has an unknown option"
		}
	}

	if rule == "" || v.rules == nil {
		return ""
	}
	ok, err := v.rules.Eval(rule, value)
	if err != nil || !ok {
		if ruleMessage != "" {
			return ruleMessage
		}
		return label + " is invalid"
	}
	return ""
}
