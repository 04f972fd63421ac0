package level

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

func (yamlCodec) Decode(_ string, data []byte) (*Pack, error) {
	var doc PackDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return fromDoc(doc)
}

func (yamlCodec) Encode(p *Pack) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(p)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func init() {
	Register(".yaml", yamlCodec{})
	Register(".yml", yamlCodec{})
}
