// Package strains provides a read-only strain reference catalog loaded
// from a CSV dataset. The catalog is plain data constructed explicitly
// and passed to whoever needs it — there is no package-level instance.
package strains

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Strain is one catalog row.
type Strain struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // indica, sativa, hybrid
	Rating      float64  `json:"rating"`
	Effects     []string `json:"effects,omitempty"`
	Flavors     []string `json:"flavors,omitempty"`
	Description string   `json:"description,omitempty"`
	THCLow      *float64 `json:"thc_low,omitempty"`
	THCHigh     *float64 `json:"thc_high,omitempty"`
}

// Catalog indexes strains by lowercased name.
type Catalog struct {
	byName map[string]Strain
	names  []string // sorted, for deterministic iteration
}

// LoadFile reads a CSV catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open strain catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a CSV catalog. The header row names the columns; the common
// Leafly export headings (Strain/Type/Rating/Effects/Flavor/Description/
// THC_Low/THC_High) and their lowercase variants are recognized. Rows
// without a name are skipped.
func Load(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := col[n]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	c := &Catalog{byName: make(map[string]Strain)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		name := field(row, "strain", "name")
		if name == "" {
			continue
		}

		s := Strain{
			Name:        name,
			Type:        strings.ToLower(field(row, "type")),
			Effects:     splitList(field(row, "effects")),
			Flavors:     splitList(field(row, "flavor", "flavors")),
			Description: field(row, "description"),
		}
		if s.Type == "" {
			s.Type = "hybrid"
		}
		if v, err := strconv.ParseFloat(field(row, "rating"), 64); err == nil {
			s.Rating = v
		}
		if v, err := strconv.ParseFloat(field(row, "thc_low"), 64); err == nil {
			s.THCLow = &v
		}
		if v, err := strconv.ParseFloat(field(row, "thc_high"), 64); err == nil {
			s.THCHigh = &v
		}

		key := strings.ToLower(name)
		if _, dup := c.byName[key]; !dup {
			c.names = append(c.names, key)
		}
		c.byName[key] = s
	}
	sort.Strings(c.names)
	return c, nil
}

// Len returns the number of strains in the catalog.
func (c *Catalog) Len() int { return len(c.byName) }

// Get looks up a strain by name, case-insensitively.
func (c *Catalog) Get(name string) (Strain, bool) {
	s, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Search returns up to limit strains whose name contains the query,
// case-insensitively, in name order.
func (c *Catalog) Search(query string, limit int) []Strain {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	var out []Strain
	for _, key := range c.names {
		if strings.Contains(key, q) {
			out = append(out, c.byName[key])
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
