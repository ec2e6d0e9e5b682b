package keywords

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Machine Learning ", "machine learning"},
		{"Cloud-Computing", "cloud computing"},
		{"data_mining", "data mining"},
		{"NETWORK   security", "network security"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadCSV_RoundTrip(t *testing.T) {
	table := `keyword,CS,IT
algorithm,20,10
network administration,10,20
database,15,15
compiler,30,0
`
	m, err := LoadCSV(strings.NewReader(table), DefaultColumns())
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	want := []Entry{
		{Term: "algorithm", WeightA: 20, WeightB: 10},
		{Term: "network administration", WeightA: 10, WeightB: 20},
		{Term: "database", WeightA: 15, WeightB: 15},
		{Term: "compiler", WeightA: 30, WeightB: 0},
	}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	for _, e := range want {
		a, b := m.Lookup(e.Term)
		if a != e.WeightA || b != e.WeightB {
			t.Errorf("Lookup(%q) = (%d, %d), want (%d, %d)", e.Term, a, b, e.WeightA, e.WeightB)
		}
	}

	if len(m.Warnings()) != 0 {
		t.Errorf("expected no warnings, got %v", m.Warnings())
	}
}

func TestLoadCSV_NonNumericWeight(t *testing.T) {
	table := `keyword,CS,IT
algorithm,twenty,10
`
	m, err := LoadCSV(strings.NewReader(table), DefaultColumns())
	if err != nil {
		t.Fatalf("LoadCSV should not fail on a bad weight: %v", err)
	}

	a, b := m.Lookup("algorithm")
	if a != 0 || b != 10 {
		t.Errorf("Lookup(algorithm) = (%d, %d), want (0, 10)", a, b)
	}

	warnings := m.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Term != "algorithm" || warnings[0].Line != 2 {
		t.Errorf("unexpected warning: %+v", warnings[0])
	}
}

func TestLoadCSV_MalformedRows(t *testing.T) {
	table := `keyword,CS,IT
,10,10
security,-5,20
   ,1,1
Cloud-Computing,5,25
cloud computing,6,26
`
	m, err := LoadCSV(strings.NewReader(table), DefaultColumns())
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if m.Len() != 2 {
		t.Errorf("expected 2 keywords, got %d", m.Len())
	}
	if a, b := m.Lookup("security"); a != 0 || b != 20 {
		t.Errorf("Lookup(security) = (%d, %d), want (0, 20)", a, b)
	}
	if a, b := m.Lookup("cloud_computing"); a != 6 || b != 26 {
		t.Errorf("Lookup(cloud_computing) = (%d, %d), want (6, 26)", a, b)
	}
	// two empty terms, one negative weight, one duplicate
	if got := len(m.Warnings()); got != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", got, m.Warnings())
	}
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("term,weight\nalgorithm,1\n"), DefaultColumns())
	if err == nil {
		t.Fatal("expected error for missing header columns")
	}
	for _, col := range []string{"keyword", "CS", "IT"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should mention column %q", err, col)
		}
	}
}

func TestLoadCSV_CustomColumns(t *testing.T) {
	table := "Term;Science;Tech\n"
	table = strings.ReplaceAll(table, ";", ",") + "parser,12,3\n"

	m, err := LoadCSV(strings.NewReader(table), Columns{Term: "term", A: "science", B: "tech"})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if a, b := m.Lookup("Parser"); a != 12 || b != 3 {
		t.Errorf("Lookup(Parser) = (%d, %d), want (12, 3)", a, b)
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
- term: algorithm
  a: 20
  b: 10
- keyword: web development
  cs: 10
  it: 20
- term: ""
  a: 1
  b: 1
- term: kernel
  a: lots
  b: 0
`
	m, err := LoadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	want := []Entry{
		{Term: "algorithm", WeightA: 20, WeightB: 10},
		{Term: "web development", WeightA: 10, WeightB: 20},
		{Term: "kernel", WeightA: 0, WeightB: 0},
	}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if got := len(m.Warnings()); got != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", got, m.Warnings())
	}
}

func TestLookupUnknown(t *testing.T) {
	m := FromEntries(Entry{Term: "algorithm", WeightA: 20, WeightB: 10})

	if a, b := m.Lookup("blockchain"); a != 0 || b != 0 {
		t.Errorf("Lookup(unknown) = (%d, %d), want (0, 0)", a, b)
	}
	if !m.Contains("ALGORITHM") {
		t.Error("expected Contains to normalize the term")
	}
}

func TestCategory(t *testing.T) {
	if CategoryA.Other() != CategoryB || CategoryB.Other() != CategoryA {
		t.Error("Other() should swap categories")
	}

	if c, err := ParseCategory(" b "); err != nil || c != CategoryB {
		t.Errorf("ParseCategory(b) = %v, %v", c, err)
	}
	if _, err := ParseCategory("c"); err == nil {
		t.Error("expected error for unknown category")
	}

	e := Entry{Term: "x", WeightA: 3, WeightB: 7}
	if e.Weight(CategoryA) != 3 || e.Weight(CategoryB) != 7 {
		t.Errorf("Weight() returned wrong values for %+v", e)
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"20", 20, true},
		{" 7 ", 7, true},
		{"0", 0, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.5", 0, false},
		{"ten", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseWeight(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseWeight(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
