package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/output"
	"github.com/thesisalign/thesisalign/internal/sections"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"5y", 0, true},
		{"d", 0, true},
		{"xd", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	cats := output.Categories{
		A: analyzer.Category{Code: "CS", Name: "Computer Science"},
		B: analyzer.Category{Code: "IT", Name: "Information Technology"},
	}

	tests := []struct {
		in      string
		want    keywords.Category
		wantErr bool
	}{
		{"CS", keywords.CategoryA, false},
		{"it", keywords.CategoryB, false},
		{"a", keywords.CategoryA, false},
		{"B", keywords.CategoryB, false},
		{"ENG", "", true},
	}

	for _, tt := range tests {
		got, err := resolveCategory(cats, tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, ""},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.in); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSections_MultipleRecords(t *testing.T) {
	records := []database.Record{
		{Source: "alpha.txt", Result: analyzer.Result{Texts: map[sections.Name]string{
			sections.Title: "Alpha Compiler", sections.Scope: "Lexing only.",
		}}},
		{Source: "beta.txt", Result: analyzer.Result{Texts: map[sections.Name]string{
			sections.Title: "Beta Network Monitor",
		}}},
	}

	var buf bytes.Buffer
	writeSections(&buf, records)
	out := buf.String()

	for _, want := range []string{"### alpha.txt", "Alpha Compiler", "Lexing only.", "### beta.txt", "Beta Network Monitor"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "### beta.txt") < strings.Index(out, "Lexing only.") {
		t.Error("sections should be grouped under their own source")
	}
}
