package req

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/serializer"
)

// validationGroupsTag assigns a field's validation rules to groups.
// Fields without it belong to serializer.DefaultGroup.
const validationGroupsTag = "validate_groups"

// A Validator checks a bound object, returning every constraint it violates.
type Validator interface {
	// Validate checks obj against constraints, if not nil,
	// or else the rules declared on obj itself,
	// considering only rules in groups.
	// No groups means the default group.
	Validate(obj any, constraints any, groups []string) ValidationErrors
}

// A PlaygroundValidator is a Validator reading "validate" struct tags
// with github.com/go-playground/validator/v10.
//
// Field names reported come from "json" tags, then "schema" tags.
// The "enum" rule checks [paramconv.Enumerable] values and slices of them.
type PlaygroundValidator struct {
	valid *v10.Validate
}

// NewValidator constructs a *PlaygroundValidator, which applies default configuration.
func NewValidator() *PlaygroundValidator {
	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			name = ""
		}

		if name == "" {
			name = strings.SplitN(field.Tag.Get("schema"), ",", 2)[0]
		}

		if name == "-" {
			name = ""
		}

		return name
	})

	return &PlaygroundValidator{v}
}

// Validate implements Validator.
//
// A string constraints is a rule set, e.g., "required,email", applied to obj as a single value;
// groups are ignored then.
// A nil constraints validates the fields of obj, a struct or pointer to one.
func (v *PlaygroundValidator) Validate(obj any, constraints any, groups []string) ValidationErrors {
	switch c := constraints.(type) {
	case nil:
		return v.translate(v.valid.Struct(obj), reflect.TypeOf(obj), groups)

	case string:
		return v.translate(v.valid.Var(obj, c), nil, nil)

	default:
		return ValidationErrors{{
			Got:  fmt.Sprintf("%T", constraints),
			Rule: "constraints must be a rule set string",
		}}
	}
}

// translate converts each issue in err to a ValidationError,
// dropping those raised by fields of root outside groups.
func (v *PlaygroundValidator) translate(err error, root reflect.Type, groups []string) ValidationErrors {
	if err == nil {
		return nil
	}

	var invalid *v10.InvalidValidationError
	if errors.As(err, &invalid) {
		return ValidationErrors{{Rule: invalid.Error()}}
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return ValidationErrors{{Rule: err.Error()}}
	}

	if len(groups) == 0 {
		groups = []string{serializer.DefaultGroup}
	}

	var validateErrs ValidationErrors
	for _, ve := range errs {
		if root != nil && !inGroups(root, ve.StructNamespace(), groups) {
			continue
		}

		field := ve.Namespace()
		ns := strings.SplitN(field, ".", 2)
		if len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}
		rule += "; " + ve.Type().String()

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

// inGroups follows the struct namespace, e.g., "Job.Owners[0].Email", from root
// to the field it names, asserting whether that field's rules are in one of groups.
func inGroups(root reflect.Type, structNs string, groups []string) bool {
	parts := strings.Split(structNs, ".")
	if len(parts) < 2 {
		return true
	}

	t := root
	var field reflect.StructField
	for _, part := range parts[1:] {
		name := part
		if i := strings.IndexByte(part, '['); i >= 0 {
			name = part[:i]
		}

		t = structType(t)
		if t.Kind() != reflect.Struct {
			return true
		}

		f, ok := t.FieldByName(name)
		if !ok {
			return true
		}

		field = f
		t = f.Type
	}

	fieldGroups := []string{serializer.DefaultGroup}
	if tag := field.Tag.Get(validationGroupsTag); tag != "" {
		fieldGroups = strings.Split(tag, ",")
	}

	for _, fg := range fieldGroups {
		for _, g := range groups {
			if strings.TrimSpace(fg) == g {
				return true
			}
		}
	}

	return false
}

// structType unwraps pointers and containers down to the type they hold.
func structType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
}

// validateEnumerable validates whether field is a valid Enumerable or slice of valid Enumerable.
func validateEnumerable(fl v10.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() == reflect.Slice {
		vals := []reflect.Value{}
		for i := 0; i < field.Len(); i++ {
			vals = append(vals, field.Index(i))
		}

		return checkEnums(vals...)
	}

	return checkEnums(field)
}

// checkEnums asserts each [reflect.Value] is an Enumerable and valid.
func checkEnums(items ...reflect.Value) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		enum, ok := item.Interface().(paramconv.Enumerable)
		if !ok || enum.Valid() != nil {
			return false
		}
	}

	return true
}
