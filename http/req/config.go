package req

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/serializer"
)

// Keys of Configuration.Options.
const (
	DeserializationContextKey = "deserializationContext"
	ValidatorKey              = "validator"
)

// Keys of the mapping under ValidatorKey.
const (
	validatorGroupsKey   = "groups"
	validatorTraverseKey = "traverse"
	validatorDeepKey     = "deep"
)

// A Configuration describes one place a request is bound into an object.
type Configuration struct {
	// Name is the attribute the bound object is stored under.
	Name string

	// Class names the type to bind into, as registered on the Binder.
	Class string

	// Options holds free-form settings.
	// The Binder reads two keys:
	//
	//	"deserializationContext": map[string]any merged over the Binder's default context
	//	"validator":              map[string]any with "groups", "traverse", "deep"
	Options map[string]any
}

// ValidatorOptions are the resolved settings for validating a bound object.
type ValidatorOptions struct {
	Groups []string

	// Traverse and Deep are accepted and checked, but the Validator has no use for them;
	// nested structs are always validated and collections follow "dive" rules.
	Traverse bool
	Deep     bool
}

// ResolveValidatorOptions applies defaults to raw, the value under ValidatorKey.
//
// A nil raw resolves to the defaults: no groups, Traverse and Deep false.
// Otherwise raw must be a map[string]any holding only known keys;
// anything else returns [paramconv.ErrBadConfig].
func ResolveValidatorOptions(raw any) (ValidatorOptions, error) {
	var opts ValidatorOptions
	if raw == nil {
		return opts, nil
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return opts, fmt.Errorf("%w: %s options must be a mapping, not %T", paramconv.ErrBadConfig, ValidatorKey, raw)
	}

	var unknown []string
	for k := range m {
		switch k {
		case validatorGroupsKey, validatorTraverseKey, validatorDeepKey:
		default:
			unknown = append(unknown, k)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return ValidatorOptions{}, fmt.Errorf(
			"%w: %s options %q do not exist, defined options are %q, %q, %q",
			paramconv.ErrBadConfig,
			ValidatorKey,
			strings.Join(unknown, ", "),
			validatorDeepKey,
			validatorGroupsKey,
			validatorTraverseKey,
		)
	}

	groups, err := serializer.ToStrings(m[validatorGroupsKey])
	if err != nil {
		return ValidatorOptions{}, fmt.Errorf("%w: %s %s: %s", paramconv.ErrBadConfig, ValidatorKey, validatorGroupsKey, err)
	}
	opts.Groups = groups

	if opts.Traverse, err = optionalBool(m, validatorTraverseKey); err != nil {
		return ValidatorOptions{}, err
	}

	if opts.Deep, err = optionalBool(m, validatorDeepKey); err != nil {
		return ValidatorOptions{}, err
	}

	return opts, nil
}

func optionalBool(m map[string]any, key string) (bool, error) {
	val, ok := m[key]
	if !ok || val == nil {
		return false, nil
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s %s must be a bool, not %T", paramconv.ErrBadConfig, ValidatorKey, key, val)
	}

	return b, nil
}
