// Package seed reads and writes block catalogs as YAML, including the
// default routine shipped with the binary.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/routineos/internal/models"
)

// FormatVersion is the catalog file version written by Encode.
const FormatVersion = 1

//go:embed default_blocks.yaml
var defaultBlocks []byte

// Catalog is the on-disk layout of a catalog file.
type Catalog struct {
	Version int            `yaml:"version"`
	Blocks  []models.Block `yaml:"blocks"`
}

// Default returns the built-in routine.
func Default() ([]models.Block, error) {
	return Decode(bytes.NewReader(defaultBlocks))
}

// Decode reads a catalog file. Field values are returned as written; they
// are normalized when saved.
func Decode(r io.Reader) ([]models.Block, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if c.Version != 0 && c.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported catalog version %d (expected %d)", c.Version, FormatVersion)
	}
	return c.Blocks, nil
}

// Encode writes blocks as a catalog file.
func Encode(w io.Writer, blocks []models.Block) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Catalog{Version: FormatVersion, Blocks: blocks}); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}
