package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mincheolkk/atdd-subway-path/internal/service"
)

// Format is a dataset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from the file extension. Anything other than
// .json is treated as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// WriteNetwork serialises the network into path, creating parent directories.
func WriteNetwork(network service.NetworkInput, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := Encode(file, network, FormatFor(path)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// ReadNetwork loads a dataset written by WriteNetwork or by hand.
func ReadNetwork(path string) (service.NetworkInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return service.NetworkInput{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	network, err := Decode(file, FormatFor(path))
	if err != nil {
		return service.NetworkInput{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return network, nil
}

func Encode(w io.Writer, network service.NetworkInput, format Format) error {
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(network)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(network); err != nil {
		return err
	}
	return encoder.Close()
}

func Decode(r io.Reader, format Format) (service.NetworkInput, error) {
	var network service.NetworkInput
	if format == FormatJSON {
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		err := decoder.Decode(&network)
		return network, err
	}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&network); err != nil && err != io.EOF {
		return service.NetworkInput{}, err
	}
	return network, nil
}
