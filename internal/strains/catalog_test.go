package strains

import (
	"math/rand"
	"strings"
	"testing"
)

const testCSV = `Strain,Type,Rating,Effects,Flavor,Description,THC_Low,THC_High
Blue Dream,hybrid,4.4,"Relaxed,Happy,Euphoric","Blueberry,Sweet",A classic for stress and pain relief.,17,24
Northern Lights,indica,4.5,"Sleepy,Relaxed,Happy","Earthy,Pine",Famous for insomnia and deep relaxation.,16,21
Sour Diesel,sativa,4.3,"Energetic,Uplifted,Focused","Diesel,Citrus",Fast-acting energy and focus.,19,25
Harlequin,sativa,4.2,"Relaxed,Focused","Earthy,Mango",High-CBD choice for pain without heaviness.,4,10
No Rating,,,"",,,,`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := testCatalog(t)
	if c.Len() != 5 {
		t.Errorf("Len = %d, want 5", c.Len())
	}

	s, ok := c.Get("blue dream")
	if !ok {
		t.Fatal("Get is not case-insensitive")
	}
	if s.Type != "hybrid" || s.Rating != 4.4 {
		t.Errorf("got %s/%g, want hybrid/4.4", s.Type, s.Rating)
	}
	if len(s.Effects) != 3 || s.Effects[0] != "Relaxed" {
		t.Errorf("Effects = %v", s.Effects)
	}
	if s.THCLow == nil || *s.THCLow != 17 || s.THCHigh == nil || *s.THCHigh != 24 {
		t.Errorf("THC range = %v-%v, want 17-24", s.THCLow, s.THCHigh)
	}

	// Missing type defaults to hybrid; missing numerics stay nil/zero.
	nr, ok := c.Get("No Rating")
	if !ok {
		t.Fatal("row without optional columns dropped")
	}
	if nr.Type != "hybrid" || nr.Rating != 0 || nr.THCLow != nil {
		t.Errorf("defaults wrong: %+v", nr)
	}
}

func TestSearch(t *testing.T) {
	c := testCatalog(t)

	got := c.Search("diesel", 10)
	if len(got) != 1 || got[0].Name != "Sour Diesel" {
		t.Errorf("Search(diesel) = %v", got)
	}

	if got := c.Search("o", 2); len(got) != 2 {
		t.Errorf("limit not applied: got %d results", len(got))
	}
	if got := c.Search("", 10); got != nil {
		t.Errorf("empty query should return nil, got %v", got)
	}
}

func TestForCondition(t *testing.T) {
	c := testCatalog(t)

	got := c.ForCondition("insomnia", 3, nil)
	if len(got) == 0 {
		t.Fatal("no matches for insomnia")
	}
	if got[0].Name != "Northern Lights" {
		t.Errorf("top match = %s, want Northern Lights (best rated match)", got[0].Name)
	}

	// Unknown conditions fall back to a literal keyword match against
	// effects and descriptions.
	got = c.ForCondition("euphoric", 3, nil)
	if len(got) != 1 || got[0].Name != "Blue Dream" {
		t.Errorf("literal fallback = %v", got)
	}

	if got := c.ForCondition("pain", 0, nil); got != nil {
		t.Errorf("zero limit should return nil, got %v", got)
	}
}

func TestForConditionSeededShuffle(t *testing.T) {
	c := testCatalog(t)

	a := c.ForCondition("pain", 2, rand.New(rand.NewSource(42)))
	b := c.ForCondition("pain", 2, rand.New(rand.NewSource(42)))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Errorf("same seed gave different order: %v vs %v", a, b)
		}
	}
}
