package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is one validator tag together with the kind and message reported when
// it is the first tag to fail.
type Rule struct {
	Tag     string
	Kind    error
	Message string
}

func (r Rule) name() string {
	name, _, _ := strings.Cut(r.Tag, "=")
	return name
}

// Checker evaluates ordered rule lists against single values.
type Checker struct {
	validate *validator.Validate
}

func NewChecker(v *validator.Validate) *Checker {
	if v == nil {
		v = New()
	}
	return &Checker{validate: v}
}

// Check runs rules in order against value and records the first failing rule
// under path. It reports whether value passed every rule.
func (c *Checker) Check(errs Errors, path string, value interface{}, rules ...Rule) bool {
	if len(rules) == 0 {
		return true
	}
	tags := make([]string, len(rules))
	for i, r := range rules {
		tags[i] = r.Tag
	}

	err := c.validate.Var(value, strings.Join(tags, ","))
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		errs.Add(path, ErrFormat, err.Error())
		return false
	}

	failed := fieldErrs[0]
	for _, r := range rules {
		if r.name() == failed.Tag() {
			errs.Add(path, r.Kind, r.Message)
			return false
		}
	}
	errs.Add(path, ErrFormat, fallbackMessage(path, failed))
	return false
}

// fallbackMessage covers tags that have no rule attached.
func fallbackMessage(path string, e validator.FieldError) string {
	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s: obrigatório", path)
	case "min":
		return fmt.Sprintf("%s: mínimo %s", path, e.Param())
	case "max":
		return fmt.Sprintf("%s: máximo %s", path, e.Param())
	case "email":
		return fmt.Sprintf("%s: formato de email inválido", path)
	default:
		return fmt.Sprintf("%s: validação falhou (%s)", path, e.Tag())
	}
}
