package mediapool

import (
	"embed"
	"fmt"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtin returns the pool shipped with the binary for kind ("video" or "audio").
func Builtin(kind string) (Pool, error) {
	b, err := builtinFS.ReadFile("builtin/" + kind + ".json")
	if err != nil {
		return Pool{}, fmt.Errorf("no builtin %s pool", kind)
	}
	return Parse(b)
}

// LoadOrBuiltin loads path, or the builtin pool for kind when path is empty.
func LoadOrBuiltin(path, kind string) (Pool, error) {
	if path == "" {
		return Builtin(kind)
	}
	return Load(path)
}
