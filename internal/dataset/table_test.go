package dataset

import (
	"fmt"
	"testing"
)

func TestClassifyKinds(t *testing.T) {
	tbl := NewTable(
		[]string{"amount", "label", "when"},
		[][]string{
			{"10.5", "red", "2024-01-02"},
			{"11", "blue", "2024-01-03"},
			{"", "red", "2024-01-04"},
		},
	)

	if got := tbl.Columns[0].Kind; got != KindNumeric {
		t.Fatalf("amount: expected numeric, got %v", got)
	}
	if got := tbl.Columns[1].Kind; got != KindCategorical {
		t.Fatalf("label: expected categorical, got %v", got)
	}
	if got := tbl.Columns[2].Kind; got != KindDatetime {
		t.Fatalf("when: expected datetime, got %v", got)
	}
	if got := tbl.Columns[0].Missing; got != 1 {
		t.Fatalf("amount: expected 1 missing, got %d", got)
	}
}

func TestClassifyMixedColumnIsCategorical(t *testing.T) {
	tbl := NewTable(
		[]string{"v"},
		[][]string{{"1"}, {"2"}, {"oops"}},
	)
	// "oops" falls inside the inference sample, so the column must not
	// be numeric.
	if got := tbl.Columns[0].Kind; got != KindCategorical {
		t.Fatalf("expected categorical, got %v", got)
	}
}

func TestMissingMarkers(t *testing.T) {
	for _, marker := range []string{"", "null", "NULL", "None", "NaN", "NA", "N/A"} {
		if !IsMissing(marker) {
			t.Fatalf("expected %q to be missing", marker)
		}
	}
	if IsMissing("0") {
		t.Fatal("'0' must not be missing")
	}
}

func TestDuplicateRowCount(t *testing.T) {
	rows := [][]string{
		{"a", "1"},
		{"b", "2"},
		{"c", "3"},
	}
	// Insert 3 exact duplicates of distinct originals.
	rows = append(rows, []string{"a", "1"}, []string{"b", "2"}, []string{"a", "1"})

	tbl := NewTable([]string{"x", "y"}, rows)
	if got := tbl.DuplicateRowCount(); got != 3 {
		t.Fatalf("expected 3 duplicates, got %d", got)
	}
}

func TestDuplicateRowCountNoDuplicates(t *testing.T) {
	tbl := NewTable([]string{"x"}, [][]string{{"a"}, {"b"}, {"c"}})
	if got := tbl.DuplicateRowCount(); got != 0 {
		t.Fatalf("expected 0 duplicates, got %d", got)
	}
}

func TestValueCountsOrdering(t *testing.T) {
	tbl := NewTable([]string{"c"}, [][]string{
		{"banana"}, {"apple"}, {"banana"}, {"apple"}, {"cherry"},
	})

	counts := tbl.ValueCounts(0)
	if len(counts) != 3 {
		t.Fatalf("expected 3 distinct values, got %d", len(counts))
	}
	// banana and apple tie at 2; banana was seen first.
	if counts[0].Value != "banana" || counts[1].Value != "apple" {
		t.Fatalf("tie-break broke encounter order: %v", counts)
	}
	if counts[2].Value != "cherry" || counts[2].Count != 1 {
		t.Fatalf("unexpected tail: %v", counts[2])
	}
}

func TestFloat64sSkipsMissingAndGarbage(t *testing.T) {
	tbl := NewTable([]string{"v"}, [][]string{
		{"1.5"}, {""}, {"x"}, {"2.5"},
	})
	values := tbl.Float64s(0)
	if len(values) != 2 || values[0] != 1.5 || values[1] != 2.5 {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestColumnIndexSplit(t *testing.T) {
	tbl := NewTable(
		[]string{"n1", "c1", "n2"},
		[][]string{{"1", "x", "2"}, {"3", "y", "4"}},
	)
	if got := tbl.NumericColumnIndices(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("numeric indices: %v", got)
	}
	if got := tbl.CategoricalColumnIndices(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("categorical indices: %v", got)
	}
}

func TestDistinctCountsIdentifierColumn(t *testing.T) {
	rows := make([][]string, 100)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("id-%03d", i)}
	}
	tbl := NewTable([]string{"id"}, rows)
	if got := tbl.Columns[0].Distinct; got != 100 {
		t.Fatalf("expected 100 distinct, got %d", got)
	}
}
