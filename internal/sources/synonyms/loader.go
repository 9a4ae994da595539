package synonyms

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// Loader handles loading and parsing of the synonym table file.
type Loader struct {
	filePath string
}

// NewLoader creates a new synonym table loader.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the synonyms yaml file. A missing path (or an
// unconfigured one) yields an empty table: search still works, just
// without colloquial expansion.
func (l *Loader) Load() (domain.SynonymTable, error) {
	if l.filePath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read synonyms file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms yaml: %w", err)
	}

	return mapTable(f), nil
}

// mapTable converts the file schema to the domain table, dropping blank
// members and classes with fewer than two usable entries.
func mapTable(f File) domain.SynonymTable {
	var table domain.SynonymTable
	for _, class := range f.Synonyms {
		cleaned := make([]string, 0, len(class))
		for _, member := range class {
			member = strings.TrimSpace(member)
			if member != "" {
				cleaned = append(cleaned, member)
			}
		}
		if len(cleaned) >= 2 {
			table = append(table, cleaned)
		}
	}
	return table
}
