package types

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
)

// ValidateRequest checks the value bundle at the input boundary. All
// problems are reported at once; each one is a *ValidationError, joined with
// errors.Join, so errors.Is(err, ErrValidation) holds for the result.
func ValidateRequest(req Request) error {
	validate, translator := newValidator()

	var errs []error
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate request: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ValidationError{
				Field:  fieldPath(fe.Namespace()),
				Reason: fe.Translate(translator),
			})
		}
	}
	errs = append(errs, validateStats(req.Plane.Stats, false)...)
	return errors.Join(errs...)
}

// ValidateStatOverrides checks stat values a user entered: names must be
// stat fields and graph stats must lie on the chart's scale. Values read back
// from an existing row are not held to the scale.
func ValidateStatOverrides(stats map[string]int) error {
	return errors.Join(validateStats(stats, true)...)
}

// validateStats rejects unknown stat names and, with graphScale set,
// out-of-scale graph values.
func validateStats(stats map[string]int, graphScale bool) []error {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		value := stats[name]
		switch {
		case !IsStatField(name):
			errs = append(errs, NewValidationError("plane.stats."+name, "unknown stat field"))
		case graphScale && IsGraphField(name) && (value < GraphMin || value > GraphMax):
			errs = append(errs, NewValidationError("plane.stats."+name, "must be between %d and %d", GraphMin, GraphMax))
		}
	}
	return errs
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Errorf("translator was not registered: %w", err))
	}

	// Report JSON names, they match the CLI's --json output.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return validate, translator
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
