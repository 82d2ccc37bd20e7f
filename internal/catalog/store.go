package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Store holds the loaded catalog and its derived indexes. A Store is immutable
// after construction and safe for unlimited concurrent reads.
type Store struct {
	records []*Assessment
	index   map[string]*Assessment
	names   []string
	corpus  []string
}

// Load reads and parses the catalog artifact. Any read or parse failure is
// returned as an error: the engine must not start without a usable catalog.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog artifact %q: %w", path, err)
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing catalog artifact %q: %w", path, err)
	}

	var records []*Assessment
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &records,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding catalog artifact %q: %w", path, err)
	}

	return New(records), nil
}

// New builds a Store and its derived indexes from the given records.
// Records that collide on the lowercased name shadow earlier ones in the
// index (last write wins); this is a catalog-authoring constraint, not a
// runtime check.
func New(records []*Assessment) *Store {
	s := &Store{
		records: records,
		index:   make(map[string]*Assessment, len(records)),
		names:   make([]string, 0, len(records)),
		corpus:  make([]string, 0, len(records)),
	}

	for _, a := range records {
		key := strings.ToLower(a.Name)
		if _, seen := s.index[key]; !seen {
			s.names = append(s.names, key)
		}
		s.index[key] = a
		s.corpus = append(s.corpus, a.Format())
	}

	return s
}

// Records returns all catalog records in artifact order.
func (s *Store) Records() []*Assessment { return s.records }

// Len returns the number of catalog records.
func (s *Store) Len() int { return len(s.records) }

// NameIndex returns the lowercased-name lookup map.
func (s *Store) NameIndex() map[string]*Assessment { return s.index }

// Names returns the index keys in first-occurrence catalog order. Resolution
// iterates this slice so that ties break deterministically.
func (s *Store) Names() []string { return s.names }

// DescriptionCorpus returns one formatted text block per record, in catalog
// order. Always the same length and order as Records.
func (s *Store) DescriptionCorpus() []string { return s.corpus }
