// Package mediapool holds the catalogue of downloadable background media.
package mediapool

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
)

// reservedKey documents a pool file and is never a media entry.
const reservedKey = "__comment"

type Record struct {
	Locator     string
	Filename    string
	Attribution string
	// Placement is "center" or a vertical offset understood by the compositor.
	Placement string
}

// LocalName is the file name the record is stored under in the media root.
func (r Record) LocalName() string {
	if r.Attribution == "" {
		return r.Filename
	}
	return r.Attribution + "-" + r.Filename
}

// Pool is read-only after construction. Keys are case-folded.
type Pool struct {
	records map[string]Record
}

func New(records map[string]Record) Pool {
	p := Pool{records: make(map[string]Record, len(records))}
	for k, r := range records {
		key := foldKey(k)
		if key == reservedKey {
			continue
		}
		p.records[key] = r
	}
	return p
}

// Load reads a pool file: {"name": [locator, filename, attribution, placement?], ...}.
func Load(path string) (Pool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pool{}, fmt.Errorf("read pool %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (Pool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return Pool{}, fmt.Errorf("parse pool: %w", err)
	}
	records := make(map[string]Record, len(raw))
	for name, msg := range raw {
		if foldKey(name) == reservedKey {
			continue
		}
		rec, err := decodeRecord(msg)
		if err != nil {
			return Pool{}, fmt.Errorf("parse pool entry %q: %w", name, err)
		}
		if _, dup := records[foldKey(name)]; dup {
			return Pool{}, fmt.Errorf("parse pool: duplicate entry %q", name)
		}
		records[foldKey(name)] = rec
	}
	return New(records), nil
}

func decodeRecord(msg json.RawMessage) (Record, error) {
	var fields []any
	if err := json.Unmarshal(msg, &fields); err != nil {
		return Record{}, err
	}
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("want at least 3 fields, got %d", len(fields))
	}
	str := func(i int) (string, error) {
		s, ok := fields[i].(string)
		if !ok {
			return "", fmt.Errorf("field %d is not a string", i)
		}
		return strings.TrimSpace(s), nil
	}
	var r Record
	var err error
	if r.Locator, err = str(0); err != nil {
		return Record{}, err
	}
	if r.Filename, err = str(1); err != nil {
		return Record{}, err
	}
	if r.Attribution, err = str(2); err != nil {
		return Record{}, err
	}
	r.Placement = "center"
	if len(fields) > 3 {
		switch v := fields[3].(type) {
		case string:
			r.Placement = v
		case float64:
			r.Placement = fmt.Sprintf("%g", v)
		}
	}
	if r.Filename == "" {
		return Record{}, fmt.Errorf("empty filename")
	}
	return r, nil
}

func (p Pool) Len() int { return len(p.records) }

func (p Pool) Get(name string) (Record, bool) {
	r, ok := p.records[foldKey(name)]
	return r, ok
}

// Names returns the sorted keys.
func (p Pool) Names() []string {
	out := make([]string, 0, len(p.records))
	for k := range p.records {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Choose returns the named record, or a random one when the name is empty or unknown.
func (p Pool) Choose(name string, rng *rand.Rand) (string, Record, bool) {
	if r, ok := p.Get(name); ok {
		return foldKey(name), r, true
	}
	names := p.Names()
	if len(names) == 0 {
		return "", Record{}, false
	}
	key := names[0]
	if len(names) > 1 {
		key = names[rng.IntN(len(names))]
	}
	return key, p.records[key], true
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
