package serializer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/xy-planning-network/paramconv"
)

// Struct tags consulted while excluding fields.
const (
	groupsTag = "groups"
	sinceTag  = "since"
	untilTag  = "until"
)

// An excluder drops from decoded data every key whose field a Context rules out.
type excluder struct {
	dctx    Context
	version *version.Version
}

func newExcluder(dctx Context) (excluder, error) {
	ex := excluder{dctx: dctx}
	if dctx.Version == "" {
		return ex, nil
	}

	v, err := parseVersion(dctx.Version)
	if err != nil {
		return excluder{}, err
	}

	ex.version = v
	return ex, nil
}

// exclude drops from data every key whose field in t is ruled out,
// descending into nested structs, slices, and maps of structs.
// Keys matching no field are kept.
func (ex excluder) exclude(data any, t reflect.Type) (any, error) {
	t = indirectType(t)

	switch t.Kind() {
	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return data, nil
		}

		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}

		if err := ex.excludeStruct(out, t); err != nil {
			return nil, err
		}

		return out, nil

	case reflect.Slice, reflect.Array:
		list, ok := data.([]any)
		if !ok {
			return data, nil
		}

		out := make([]any, len(list))
		for i, item := range list {
			var err error
			if out[i], err = ex.exclude(item, t.Elem()); err != nil {
				return nil, err
			}
		}

		return out, nil

	case reflect.Map:
		m, ok := data.(map[string]any)
		if !ok {
			return data, nil
		}

		out := make(map[string]any, len(m))
		for k, v := range m {
			var err error
			if out[k], err = ex.exclude(v, t.Elem()); err != nil {
				return nil, err
			}
		}

		return out, nil

	default:
		return data, nil
	}
}

// excludeStruct edits m in place against the fields of the struct type t.
//
// Embedded structs are squashed into their parent, tagged or not,
// the same way decoding flattens them.
// Every key equal to a field's name under Unicode case folding is treated as that field.
func (ex excluder) excludeStruct(m map[string]any, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, skip := fieldName(field)
		if skip {
			continue
		}

		if field.Anonymous {
			if et := indirectType(field.Type); et.Kind() == reflect.Struct {
				if err := ex.excludeStruct(m, et); err != nil {
					return err
				}
			}
		}

		if name == "" {
			name = field.Name
		}

		out, err := ex.excluded(field)
		if err != nil {
			return err
		}

		for k := range m {
			if !strings.EqualFold(k, name) {
				continue
			}

			if out {
				delete(m, k)
				continue
			}

			if m[k], err = ex.exclude(m[k], field.Type); err != nil {
				return err
			}
		}
	}

	return nil
}

// excluded asserts whether field is ruled out.
//
// When the Context has groups, a field survives only if one of its groups is among them.
// When the Context has a version, a field survives only if the version falls within
// its "since" and "until" tags, both inclusive.
// A tag that is not a version fails with [paramconv.ErrBadConfig].
func (ex excluder) excluded(field reflect.StructField) (bool, error) {
	if ex.dctx.HasGroups() {
		groups := []string{DefaultGroup}
		if tag := field.Tag.Get(groupsTag); tag != "" {
			groups = splitTag(tag)
		}

		if !intersects(groups, ex.dctx.Groups) {
			return true, nil
		}
	}

	if ex.version == nil {
		return false, nil
	}

	if tag := field.Tag.Get(sinceTag); tag != "" {
		since, err := parseVersion(tag)
		if err != nil {
			return false, fmt.Errorf("%w: field %s: %s tag: %s", paramconv.ErrBadConfig, field.Name, sinceTag, err)
		}

		if ex.version.LessThan(since) {
			return true, nil
		}
	}

	if tag := field.Tag.Get(untilTag); tag != "" {
		until, err := parseVersion(tag)
		if err != nil {
			return false, fmt.Errorf("%w: field %s: %s tag: %s", paramconv.ErrBadConfig, field.Name, untilTag, err)
		}

		if ex.version.GreaterThan(until) {
			return true, nil
		}
	}

	return false, nil
}

// fieldName reads the json tag of field.
// Unexported fields and fields tagged "-" are skipped.
func fieldName(field reflect.StructField) (string, bool) {
	if !field.IsExported() && !field.Anonymous {
		return "", true
	}

	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return "", true
	}

	return name, false
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func splitTag(tag string) []string {
	var out []string
	for _, s := range strings.Split(tag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}

	return false
}
