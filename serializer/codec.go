package serializer

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"reflect"
	"strings"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v3"
)

// Format names of the shipped codecs.
const (
	FormatJSON    = "json"
	FormatForm    = "form"
	FormatMsgPack = "msgpack"
	FormatXML     = "xml"
	FormatYAML    = "yaml"
)

// A Codec decodes one wire format into body parameters.
type Codec interface {
	// Format names the wire format, e.g., "json".
	Format() string

	// MediaTypes lists the media types that select this Codec.
	MediaTypes() []string

	// Params decodes body into a mapping of parameter names to values.
	// An empty body decodes into an empty mapping.
	Params(body io.Reader) (map[string]any, error)

	// Loose asserts whether the format carries every scalar as a string,
	// so values need converting into the target field's type.
	Loose() bool
}

var (
	JSON    Codec = jsonCodec{}
	Form    Codec = formCodec{}
	MsgPack Codec = msgpackCodec{}
	XML     Codec = xmlCodec{}
	YAML    Codec = yamlCodec{}
)

// FormatFromContentType maps a Content-Type header value to a format name.
//
// Known media types map to the shipped formats;
// structured syntax suffixes such as "+json" map to their base format;
// anything else maps to its media subtype, for which no Codec may exist.
func FormatFromContentType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}

	for _, c := range []Codec{JSON, Form, MsgPack, XML, YAML} {
		for _, known := range c.MediaTypes() {
			if mt == known {
				return c.Format()
			}
		}
	}

	for _, suffix := range []string{FormatJSON, FormatXML, FormatYAML} {
		if strings.HasSuffix(mt, "+"+suffix) {
			return suffix
		}
	}

	if _, sub, ok := strings.Cut(mt, "/"); ok {
		return sub
	}

	return mt
}

type jsonCodec struct{}

func (jsonCodec) Format() string { return FormatJSON }
func (jsonCodec) Loose() bool    { return false }
func (jsonCodec) MediaTypes() []string {
	return []string{"application/json", "text/json"}
}

func (jsonCodec) Params(body io.Reader) (map[string]any, error) {
	params := make(map[string]any)
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}

	return params, nil
}

type formCodec struct{}

func (formCodec) Format() string       { return FormatForm }
func (formCodec) Loose() bool          { return true }
func (formCodec) MediaTypes() []string { return []string{"application/x-www-form-urlencoded"} }

func (formCodec) Params(body io.Reader) (map[string]any, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	vals, err := url.ParseQuery(string(b))
	if err != nil {
		return nil, err
	}

	return FlattenValues(vals), nil
}

// FlattenValues converts url.Values into body parameters:
// keys with one value map to a string, keys with many map to a list.
func FlattenValues(vals url.Values) map[string]any {
	params := make(map[string]any, len(vals))
	for k, vs := range vals {
		switch len(vs) {
		case 0:
		case 1:
			params[k] = vs[0]
		default:
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			params[k] = list
		}
	}

	return params
}

type msgpackCodec struct{}

func (msgpackCodec) Format() string { return FormatMsgPack }
func (msgpackCodec) Loose() bool    { return false }
func (msgpackCodec) MediaTypes() []string {
	return []string{"application/msgpack", "application/x-msgpack", "application/vnd.msgpack"}
}

func (msgpackCodec) Params(body io.Reader) (map[string]any, error) {
	h := new(codec.MsgpackHandle)
	h.MapType = reflect.TypeOf(map[string]any(nil))
	h.RawToString = true

	params := make(map[string]any)
	if err := codec.NewDecoder(body, h).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return params, nil
}

type yamlCodec struct{}

func (yamlCodec) Format() string { return FormatYAML }
func (yamlCodec) Loose() bool    { return false }
func (yamlCodec) MediaTypes() []string {
	return []string{"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml"}
}

func (yamlCodec) Params(body io.Reader) (map[string]any, error) {
	params := make(map[string]any)
	if err := yaml.NewDecoder(body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return params, nil
}

type xmlCodec struct{}

func (xmlCodec) Format() string       { return FormatXML }
func (xmlCodec) Loose() bool          { return true }
func (xmlCodec) MediaTypes() []string { return []string{"application/xml", "text/xml"} }

// Params reads the children of the document's root element.
// Elements holding only text become strings, elements holding elements become mappings,
// and repeated elements become lists.
func (xmlCodec) Params(body io.Reader) (map[string]any, error) {
	dec := xml.NewDecoder(body)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return make(map[string]any), nil
		}

		if err != nil {
			return nil, err
		}

		if _, ok := tok.(xml.StartElement); ok {
			val, err := xmlElement(dec)
			if err != nil {
				return nil, err
			}

			if params, ok := val.(map[string]any); ok {
				return params, nil
			}

			return make(map[string]any), nil
		}
	}
}

// xmlElement decodes the element whose start token was just read.
func xmlElement(dec *xml.Decoder) (any, error) {
	var (
		text     strings.Builder
		children map[string]any
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("xml: unexpected EOF")
			}
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := xmlElement(dec)
			if err != nil {
				return nil, err
			}

			if children == nil {
				children = make(map[string]any)
			}

			name := t.Name.Local
			switch existing := children[name].(type) {
			case nil:
				children[name] = child
			case []any:
				children[name] = append(existing, child)
			default:
				children[name] = []any{existing, child}
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if children != nil {
				return children, nil
			}

			return strings.TrimSpace(text.String()), nil
		}
	}
}
