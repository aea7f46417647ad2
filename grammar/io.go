package grammar

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadDescriptor decodes a YAML descriptor and validates it.
func LoadDescriptor(r io.Reader) (LanguageDescriptor, error) {
	var desc LanguageDescriptor
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return LanguageDescriptor{}, errors.Wrap(err, "decoding descriptor")
	}
	if err := desc.Validate(); err != nil {
		return LanguageDescriptor{}, err
	}
	return desc, nil
}

// WriteDescriptor encodes desc as YAML.
func WriteDescriptor(w io.Writer, desc LanguageDescriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return errors.Wrap(err, "encoding descriptor")
	}
	return enc.Close()
}
