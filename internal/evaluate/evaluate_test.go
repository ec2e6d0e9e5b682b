package evaluate

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesisalign/thesisalign/internal/keywords"
)

var codes = Codes{A: "CS", B: "IT"}

func TestLoadLabels(t *testing.T) {
	data := "source,label\n" +
		"uploads/smart-campus.pdf,IT\n" +
		"compiler.txt,cs\n" +
		"robotics.txt,B\n" +
		"mystery.txt,ENG\n" +
		",CS\n"

	labels, err := LoadLabels(strings.NewReader(data), codes)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}

	want := []Label{
		{Source: "uploads/smart-campus.pdf", Category: keywords.CategoryB},
		{Source: "compiler.txt", Category: keywords.CategoryA},
		{Source: "robotics.txt", Category: keywords.CategoryB},
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("LoadLabels() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLabels_BadHeader(t *testing.T) {
	if _, err := LoadLabels(strings.NewReader("name,kind\na,CS\n"), codes); err == nil {
		t.Error("expected error for missing columns")
	}
	if _, err := LoadLabels(strings.NewReader(""), codes); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestEvaluate(t *testing.T) {
	a, b := keywords.CategoryA, keywords.CategoryB
	labels := []Label{
		{"one.txt", a},
		{"two.txt", a},
		{"three.txt", a},
		{"four.txt", b},
		{"five.txt", b},
		{"missing.txt", b},
	}
	predictions := map[string]keywords.Category{
		"one.txt":   a,
		"two.txt":   a,
		"three.txt": b,
		"four.txt":  b,
		"five.txt":  a,
	}

	r := Evaluate(labels, predictions)

	if r.Labelled != 6 || r.Evaluated != 5 {
		t.Errorf("labelled/evaluated = %d/%d, want 6/5", r.Labelled, r.Evaluated)
	}
	if diff := cmp.Diff([]string{"missing.txt"}, r.Unmatched); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if !approx(r.Accuracy, 0.6) {
		t.Errorf("accuracy = %v, want 0.6", r.Accuracy)
	}

	// A: TP=2 FP=1 FN=1; B: TP=1 FP=1 FN=1
	ma, mb := r.PerCategory[0], r.PerCategory[1]
	if ma.TP != 2 || ma.FP != 1 || ma.FN != 1 || ma.Support != 3 {
		t.Errorf("A counts = %+v", ma)
	}
	if !approx(ma.Precision, 2.0/3) || !approx(ma.Recall, 2.0/3) || !approx(ma.F1, 2.0/3) {
		t.Errorf("A metrics = %+v", ma)
	}
	if !approx(mb.Precision, 0.5) || !approx(mb.Recall, 0.5) || !approx(mb.F1, 0.5) {
		t.Errorf("B metrics = %+v", mb)
	}
	if !approx(r.Macro.F1, (2.0/3+0.5)/2) {
		t.Errorf("macro F1 = %v", r.Macro.F1)
	}
}

func TestEvaluate_Empty(t *testing.T) {
	r := Evaluate(nil, nil)
	if r.Evaluated != 0 || r.Accuracy != 0 || r.Macro.F1 != 0 {
		t.Errorf("unexpected report for no labels: %+v", r)
	}
}

func TestSourceKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Thesis.TXT", "thesis.txt"},
		{"/tmp/uploads/a.pdf", "a.pdf"},
		{"  b.md ", "b.md"},
	}
	for _, tt := range tests {
		if got := SourceKey(tt.in); got != tt.want {
			t.Errorf("SourceKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
