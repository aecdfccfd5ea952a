package slot

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"gopkg.in/yaml.v3"
)

// Format names the serialization of a document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// requiredArrays are the top level keys every dataset document has to carry
var requiredArrays = []string{"posts", "authors", "categories"}

// Codec converts a dataset from and to its serialized form.
// Decode rejects anything that is not a well formed dataset with a *ParseError.
type Codec interface {
	Format() Format
	Encode(d blog.Dataset) ([]byte, error)
	Decode(data []byte) (blog.Dataset, error)
}

// CodecFor returns the codec for the given format
func CodecFor(f Format) (Codec, error) {
	switch f {
	case FormatJSON, "":
		return JSONCodec(), nil
	case FormatYAML:
		return YAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", f)
	}
}

// checkDecoded collects the problems of a decoded document.
// keys maps the top level keys of the document to whether their value is null.
func checkDecoded(keys map[string]bool, d blog.Dataset) error {
	var problems []string
	for _, k := range requiredArrays {
		isNull, ok := keys[k]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: missing", k))
		case isNull:
			problems = append(problems, fmt.Sprintf("%s: null", k))
		}
	}
	problems = append(problems, d.Problems()...)
	if len(problems) > 0 {
		return &ParseError{Problems: problems}
	}
	return nil
}

// --------------------------------------------------------------------------
// JSON (slot format)
// --------------------------------------------------------------------------

type jsonCodec struct{}

// JSONCodec returns the codec the slot is stored with
func JSONCodec() Codec {
	return jsonCodec{}
}

func (jsonCodec) Format() Format {
	return FormatJSON
}

// Encode writes nil lists as [] so the result always passes Decode
func (jsonCodec) Encode(d blog.Dataset) ([]byte, error) {
	if d.Posts == nil {
		d.Posts = []blog.Post{}
	}
	if d.Authors == nil {
		d.Authors = []blog.Author{}
	}
	if d.Categories == nil {
		d.Categories = []blog.Category{}
	}
	return json.Marshal(d)
}

func (jsonCodec) Decode(data []byte) (blog.Dataset, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return blog.Dataset{}, &ParseError{Problems: []string{err.Error()}}
	}

	var d blog.Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return blog.Dataset{}, &ParseError{Problems: []string{err.Error()}}
	}

	keys := make(map[string]bool, len(top))
	for k, v := range top {
		keys[k] = string(v) == "null"
	}
	if err := checkDecoded(keys, d); err != nil {
		return blog.Dataset{}, err
	}
	return d, nil
}

// --------------------------------------------------------------------------
// YAML (bootstrap only)
// --------------------------------------------------------------------------

type yamlCodec struct{}

// YAMLCodec returns a codec for YAML bootstrap documents
func YAMLCodec() Codec {
	return yamlCodec{}
}

func (yamlCodec) Format() Format {
	return FormatYAML
}

func (yamlCodec) Encode(d blog.Dataset) ([]byte, error) {
	return yaml.Marshal(d)
}

func (yamlCodec) Decode(data []byte) (blog.Dataset, error) {
	var top map[string]interface{}
	if err := yaml.Unmarshal(data, &top); err != nil {
		return blog.Dataset{}, &ParseError{Problems: []string{err.Error()}}
	}

	var d blog.Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return blog.Dataset{}, &ParseError{Problems: []string{err.Error()}}
	}

	keys := make(map[string]bool, len(top))
	for k, v := range top {
		keys[k] = v == nil
	}
	if err := checkDecoded(keys, d); err != nil {
		return blog.Dataset{}, err
	}
	return d, nil
}
