package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// seedFile is the on-disk layout of SCHEMAS_FILE.
type seedFile struct {
	Schemas []entity.ParserConfig `yaml:"schemas"`
}

// LoadFile reads user schemas from a YAML seed file.
func LoadFile(filePath string) ([]entity.ParserConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader parses user schemas from an io.Reader.
func LoadFromReader(r io.Reader) ([]entity.ParserConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse schemas yaml: %w", err)
	}
	return seed.Schemas, nil
}
