package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xy-planning-network/paramconv"
)

var (
	ErrMalformed         = errors.New("malformed payload")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// A PostDeserializer is an object that finishes its own construction
// once its fields are set, consulting the Context it was deserialized with.
type PostDeserializer interface {
	AfterDeserialize(dctx Context) error
}

// A Serializer turns canonical text into objects using the Codec registered for a wire format.
//
// A Serializer is safe for concurrent use once all Codecs are registered.
type Serializer struct {
	codecs map[string]Codec
}

// New constructs a *Serializer with codecs registered.
// If none are passed, every shipped Codec is registered.
func New(codecs ...Codec) *Serializer {
	if len(codecs) == 0 {
		codecs = []Codec{JSON, Form, MsgPack, XML, YAML}
	}

	s := &Serializer{codecs: make(map[string]Codec, len(codecs))}
	for _, c := range codecs {
		s.Register(c)
	}

	return s
}

// Register adds c, replacing any Codec already registered for its format.
func (s *Serializer) Register(c Codec) { s.codecs[c.Format()] = c }

// Supports asserts whether a Codec is registered for format.
func (s *Serializer) Supports(format string) bool {
	_, ok := s.codecs[format]
	return ok
}

// Params decodes body into body parameters using the Codec for format.
func (s *Serializer) Params(format string, body io.Reader) (map[string]any, error) {
	c, err := s.codec(format)
	if err != nil {
		return nil, err
	}

	params, err := c.Params(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	return params, nil
}

// Canonical renders params as compact JSON with sorted keys.
func Canonical(params map[string]any) ([]byte, error) {
	if params == nil {
		params = make(map[string]any)
	}

	b, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	return b, nil
}

// Deserialize sets the fields of target, a non-nil pointer, from the canonical text.
//
// format selects the Codec whose rules apply; an unregistered format returns ErrUnsupportedFormat.
// Keys bind only to the field they name exactly.
// Fields dctx excludes by group or version are left untouched,
// whatever the case of the keys naming them.
// A number never binds into a string field unless the Codec is loose,
// and numbers bound into interface values are int64 or float64.
// If target is a PostDeserializer, it is called last.
// Problems with text return ErrMalformed.
// A version in dctx or in a "since" or "until" tag that does not parse
// returns [paramconv.ErrBadConfig].
func (s *Serializer) Deserialize(text []byte, target any, format string, dctx Context) error {
	c, err := s.codec(format)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: cannot deserialize into non-pointer %T", paramconv.ErrBadConfig, target)
	}

	var data any
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	ex, err := newExcluder(dctx)
	if err != nil {
		return err
	}

	if data, err = ex.exclude(data, rv.Type()); err != nil {
		return err
	}

	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberHook(c.Loose()),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		MatchName:        func(key, name string) bool { return key == name },
		Result:           target,
		Squash:           true,
		TagName:          "json",
		WeaklyTypedInput: c.Loose(),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", paramconv.ErrUnexpected, err)
	}

	if err := md.Decode(data); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	if pd, ok := target.(PostDeserializer); ok {
		if err := pd.AfterDeserialize(dctx); err != nil {
			return fmt.Errorf("%w: %s", ErrMalformed, err)
		}
	}

	return nil
}

var numberType = reflect.TypeOf(json.Number(""))

// numberHook settles numbers in canonical text against the field they bind into.
func numberHook(loose bool) mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to.Kind() == reflect.Interface {
			return plainNumbers(data), nil
		}

		if from != numberType || to == numberType || to.Kind() != reflect.String {
			return data, nil
		}

		if !loose {
			return nil, fmt.Errorf("expected type %s, got number %s", to, data)
		}

		return data.(json.Number).String(), nil
	}
}

// plainNumbers replaces every json.Number in data with an int64, or a float64 if it has a fraction.
func plainNumbers(data any) any {
	switch v := data.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}

		if f, err := v.Float64(); err == nil {
			return f
		}

		return v.String()

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plainNumbers(item)
		}

		return out

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainNumbers(item)
		}

		return out

	default:
		return data
	}
}

func (s *Serializer) codec(format string) (Codec, error) {
	c, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}

	return c, nil
}
