package level

import (
	_ "embed"
	"fmt"
)

//go:embed packs/builtin.yaml
var builtinYAML []byte

// Builtin returns a fresh copy of the pack shipped with the binary.
func Builtin() *Pack {
	p, err := yamlCodec{}.Decode("builtin.yaml", builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("level: embedded pack is invalid: %v", err))
	}
	return p
}

// LoadOrBuiltin loads the pack at path, or the built-in pack when path is
// empty.
func LoadOrBuiltin(path string) (*Pack, error) {
	if path == "" {
		return Builtin(), nil
	}
	return Load(path)
}
