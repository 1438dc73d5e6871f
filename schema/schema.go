// Package schema defines the wire entities and payloads exchanged with the
// habit service, together with their validation contracts. Validation is pure
// and synchronous; failures carry one message per violated field path.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/habitloop/client-go/errs"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations by json field name so callers can attach messages
	// to the matching form control.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
	mustRegister(v, "dateonly", func(fl validator.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidationError reports every violated field of a payload or response body.
// Keys are json field paths relative to the validated value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var b strings.Builder
	b.WriteString("validation failed")
	for _, p := range paths {
		fmt.Fprintf(&b, "; %s: %s", p, e.Fields[p])
	}
	return b.String()
}

// Is makes the error match errs.ErrValidation under errors.Is.
func (e *ValidationError) Is(target error) bool { return target == errs.ErrValidation }

// prefix returns a copy with every field path nested under the given parent,
// e.g. "name" -> "results[2].name".
func (e *ValidationError) prefix(parent string) *ValidationError {
	fields := make(map[string]string, len(e.Fields))
	for p, msg := range e.Fields {
		fields[parent+"."+p] = msg
	}
	return &ValidationError{Fields: fields}
}

// check runs the contract for v and converts validator output into a
// *ValidationError with human-readable per-field messages.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		if _, seen := fields[path]; !seen {
			fields[path] = message(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// fieldPath strips the root struct name from the namespace, keeping nested
// paths like "user.email" intact.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "dateonly":
		return "must be a date in YYYY-MM-DD format"
	case "rfc3339":
		return "must be an ISO-8601 timestamp"
	case "eqfield":
		return "passwords don't match"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

func asValidation(err error, dst **ValidationError) bool {
	return errors.As(err, dst)
}

// decode unmarshals a response body, mapping malformed JSON onto the
// validation sentinel so callers see one failure class for bad bodies.
func decode(data []byte, what string, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", errs.ErrValidation, what, err)
	}
	return nil
}
