package dictionary

import (
	_ "embed"
	"fmt"
	"os"
)

// starterYAML is a commented example dictionary compiled into the binary.
//
//go:embed starter.yaml
var starterYAML []byte

// Starter returns the example dictionary's YAML source.
func Starter() []byte {
	return append([]byte(nil), starterYAML...)
}

// WriteStarter writes the example dictionary to path. It refuses to
// overwrite an existing file.
func WriteStarter(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create dictionary: %w", err)
	}
	if _, err := f.Write(starterYAML); err != nil {
		f.Close()
		return fmt.Errorf("write dictionary: %w", err)
	}
	return f.Close()
}
