package facts

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/zjy-dev/covjson/internal/analysis"
)

// fileFactsJSON is the on-disk shape of one file's facts. Arc pairs are
// [source, target]; context keys are stringified line numbers, matching the
// report output format.
type fileFactsJSON struct {
	Statements    []int               `json:"statements"`
	Excluded      []int               `json:"excluded"`
	ExecutedLines []int               `json:"executed_lines"`
	PossibleArcs  [][2]int            `json:"possible_arcs"`
	ExecutedArcs  [][2]int            `json:"executed_arcs"`
	Contexts      map[string][]string `json:"contexts"`
	Regions       []regionJSON        `json:"regions"`
}

type regionJSON struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Lines []int  `json:"lines"`
}

type storeJSON struct {
	Files map[string]json.RawMessage `json:"files"`
}

// Store is a Provider backed by a facts JSON document. Files whose entries
// are malformed are kept with their decode error so the assembler can report
// them individually and keep going.
type Store struct {
	order []string
	files map[string]*FileFacts
	errs  map[string]error
}

// Load reads a facts document from disk.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a facts document. The document itself must be valid JSON;
// individual file entries are decoded separately so one bad entry does not
// poison the rest.
func Parse(data []byte) (*Store, error) {
	var doc storeJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse facts document: %w", err)
	}

	s := &Store{
		files: make(map[string]*FileFacts, len(doc.Files)),
		errs:  make(map[string]error),
	}
	for path, raw := range doc.Files {
		s.order = append(s.order, path)
		ff, err := decodeFileFacts(raw)
		if err != nil {
			s.errs[path] = err
			continue
		}
		s.files[path] = ff
	}
	sort.Strings(s.order)
	return s, nil
}

// Files returns the known file paths in ascending order.
func (s *Store) Files() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Query returns the facts for one file, or the error recorded when its entry
// could not be decoded.
func (s *Store) Query(path string) (*FileFacts, error) {
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	ff, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("no facts recorded for %q", path)
	}
	return ff, nil
}

func decodeFileFacts(raw json.RawMessage) (*FileFacts, error) {
	var entry fileFactsJSON
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("malformed facts entry: %w", err)
	}

	ff := &FileFacts{
		Statements:   analysis.LineSetOf(entry.Statements),
		Excluded:     analysis.LineSetOf(entry.Excluded),
		Executed:     analysis.LineSetOf(entry.ExecutedLines),
		PossibleArcs: toArcs(entry.PossibleArcs),
		ExecutedArcs: toArcs(entry.ExecutedArcs),
	}

	if len(entry.Contexts) > 0 {
		ff.Contexts = make(map[int][]string, len(entry.Contexts))
		for key, labels := range entry.Contexts {
			line, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("bad context line key %q: %w", key, err)
			}
			ff.Contexts[line] = labels
		}
	}

	for _, r := range entry.Regions {
		kind, err := ParseRegionKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.Name, err)
		}
		ff.Regions = append(ff.Regions, CodeRegion{
			Kind:  kind,
			Name:  r.Name,
			Lines: analysis.LineSetOf(r.Lines),
		})
	}
	return ff, nil
}

func toArcs(pairs [][2]int) []analysis.Arc {
	if len(pairs) == 0 {
		return nil
	}
	arcs := make([]analysis.Arc, 0, len(pairs))
	for _, p := range pairs {
		arcs = append(arcs, analysis.Arc{Src: p[0], Dst: p[1]})
	}
	return arcs
}
