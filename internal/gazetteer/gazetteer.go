// Package gazetteer holds the static table of named places (colleges) with
// coordinates that college searches resolve against.
package gazetteer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one named location.
type Entry struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Gazetteer is immutable after construction and safe for concurrent reads.
type Gazetteer struct {
	entries []Entry
	lowered []string
}

// rawEntry accepts both latitude/longitude and lat/lon keys.
type rawEntry struct {
	Name      string   `json:"name" yaml:"name"`
	Latitude  *float64 `json:"latitude" yaml:"latitude"`
	Longitude *float64 `json:"longitude" yaml:"longitude"`
	Lat       *float64 `json:"lat" yaml:"lat"`
	Lon       *float64 `json:"lon" yaml:"lon"`
}

// New builds a gazetteer from entries, keeping their order.
func New(entries []Entry) *Gazetteer {
	g := &Gazetteer{
		entries: make([]Entry, len(entries)),
		lowered: make([]string, len(entries)),
	}
	copy(g.entries, entries)
	for i, e := range g.entries {
		g.lowered[i] = strings.ToLower(e.Name)
	}
	return g
}

// Empty returns a gazetteer with no entries.
func Empty() *Gazetteer {
	return New(nil)
}

// Load reads the table at path. JSON is the default; .yaml and .yml files are
// parsed as YAML. On any failure it returns an empty gazetteer together with
// the error, so callers can log and keep serving.
func Load(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty(), fmt.Errorf("read gazetteer %s: %w", path, err)
	}

	entries, err := Parse(data, formatFor(path))
	if err != nil {
		return Empty(), fmt.Errorf("parse gazetteer %s: %w", path, err)
	}
	return New(entries), nil
}

// Format names a supported encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a list of entries. Any entry without a name or a valid
// coordinate pair makes the whole document malformed.
func Parse(data []byte, format Format) ([]Entry, error) {
	var raw []rawEntry
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		entry, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r rawEntry) toEntry() (Entry, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Entry{}, errors.New("name is required")
	}

	lat, lon := r.Latitude, r.Longitude
	if lat == nil {
		lat = r.Lat
	}
	if lon == nil {
		lon = r.Lon
	}
	if lat == nil || lon == nil {
		return Entry{}, fmt.Errorf("%q: latitude and longitude are required", name)
	}
	if !validCoordinate(*lat, 90) || !validCoordinate(*lon, 180) {
		return Entry{}, fmt.Errorf("%q: coordinates out of range", name)
	}
	return Entry{Name: name, Latitude: *lat, Longitude: *lon}, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}

// Resolve finds the first entry, in source order, whose name contains name
// case-insensitively. An empty or blank name never matches.
func (g *Gazetteer) Resolve(name string) (Entry, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Entry{}, false
	}
	for i, candidate := range g.lowered {
		if strings.Contains(candidate, needle) {
			return g.entries[i], true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of all entries in source order.
func (g *Gazetteer) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Len returns the number of entries.
func (g *Gazetteer) Len() int {
	return len(g.entries)
}
