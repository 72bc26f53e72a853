package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/xy-planning-network/paramconv"
)

// Option keys recognized by NewContext.
// Every other key becomes an attribute.
const (
	GroupsKey  = "groups"
	VersionKey = "version"
)

// DefaultGroup is the group every field without a "groups" tag belongs to.
const DefaultGroup = "Default"

// A Context tunes how a payload is turned into an object:
// which groups of fields survive, which version of the object is expected,
// and any free-form attributes hooks may consult.
//
// A Context is built fresh for every deserialization.
type Context struct {
	Groups     []string
	Version    string
	Attributes map[string]any
}

// NewContext builds a Context from options.
// "groups" sets Groups, "version" sets Version,
// every other key is stored verbatim in Attributes.
// A version that does not parse, e.g. "latest", fails with [paramconv.ErrBadConfig].
func NewContext(options map[string]any) (Context, error) {
	var dctx Context
	for key, val := range options {
		switch key {
		case GroupsKey:
			groups, err := toGroups(val)
			if err != nil {
				return Context{}, fmt.Errorf("%w: %s: %s", paramconv.ErrBadConfig, GroupsKey, err)
			}
			dctx.Groups = groups

		case VersionKey:
			v, err := toVersion(val)
			if err != nil {
				return Context{}, fmt.Errorf("%w: %s: %s", paramconv.ErrBadConfig, VersionKey, err)
			}

			if v != "" {
				if _, err := parseVersion(v); err != nil {
					return Context{}, fmt.Errorf("%s: %w", VersionKey, err)
				}
			}
			dctx.Version = v

		default:
			if dctx.Attributes == nil {
				dctx.Attributes = make(map[string]any)
			}
			dctx.Attributes[key] = val
		}
	}

	return dctx, nil
}

// Attribute retrieves the attribute stored under key.
func (c Context) Attribute(key string) (any, bool) {
	val, ok := c.Attributes[key]
	return val, ok
}

// HasGroups asserts whether the Context restricts fields by group.
func (c Context) HasGroups() bool { return len(c.Groups) > 0 }

// MergeOptions shallowly merges overrides onto defaults, returning a new map.
// Keys in overrides win; neither input is mutated.
func MergeOptions(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}

	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}

// ToStrings converts a single string or a list of strings into a []string.
// nil converts to nil.
func ToStrings(val any) ([]string, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil

	case string:
		return []string{v}, nil

	case []string:
		return append([]string(nil), v...), nil

	case []any:
		strs := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, not string", i, item)
			}
			strs = append(strs, s)
		}

		return strs, nil

	default:
		return nil, fmt.Errorf("%T is not a string or list of strings", val)
	}
}

func toGroups(val any) ([]string, error) { return ToStrings(val) }

func toVersion(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%T is not a version", val)
	}
}
