package toolutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml"
)

// ReadYaml decodes a configuration file into dest, rejecting unknown keys.
// Files ending in .toml are read as TOML, anything else as YAML.
// The process exits with status 3 if the file cannot be read or parsed.
func ReadYaml(dest any, file string) {
	if err := DecodeYamlFile(dest, file); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(3)
	}
}

// DecodeYamlFile is ReadYaml returning the error instead of exiting.
func DecodeYamlFile(dest any, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("unable to open configuration file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(file), ".toml") {
		err = decodeToml(f, dest)
	} else {
		err = yaml.NewDecoder(f, yaml.Strict()).Decode(dest)
	}
	if err != nil {
		return fmt.Errorf("unable to parse configuration file: %w", err)
	}
	return nil
}

func decodeToml(r io.Reader, dest any) error {
	return toml.NewDecoder(r).Strict(true).Decode(dest)
}
