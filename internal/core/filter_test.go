package core

import (
	"reflect"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "r1", Type: TypeDonation, Amount: "100", Name: "Ahmed Khan", Note: "monthly"},
		{ID: "r2", Type: TypeExpense, Amount: "40", Name: "Utility Office", Note: "bill\npaid"},
		{ID: "r3", Type: TypePledge, Amount: "250", Name: "Bilal Trust"},
		{ID: "r4", Type: TypeWelfare, Amount: "80", Name: "Ration pack"},
	}
}

func TestFilterAllEmptyQueryReturnsInputUnchanged(t *testing.T) {
	records := sampleRecords()
	got := Filter(records, FilterAll, "")
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Filter(all, \"\") = %v, want input unchanged", got)
	}
}

func TestFilter(t *testing.T) {
	records := sampleRecords()
	tests := []struct {
		name       string
		typeFilter string
		query      string
		wantIDs    []string
	}{
		{"exact type match", TypeDonation, "", []string{"r1"}},
		{"query on name", FilterAll, "trust", []string{"r3"}},
		{"query on note", FilterAll, "PAID", []string{"r2"}},
		{"query on type", TypeWelfare, "فلاحی", []string{"r4"}},
		{"both predicates anded", TypeDonation, "office", nil},
		{"whitespace query matches all", FilterAll, "   ", []string{"r1", "r2", "r3", "r4"}},
		{"no match", FilterAll, "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.typeFilter, tt.query)
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("got %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestFilterResultIsSubset(t *testing.T) {
	records := sampleRecords()
	byID := map[string]Record{}
	for _, r := range records {
		byID[r.ID] = r
	}
	for _, q := range []string{"", "a", "bill", "خان"} {
		for _, r := range Filter(records, FilterAll, q) {
			if orig, ok := byID[r.ID]; !ok || !reflect.DeepEqual(orig, r) {
				t.Errorf("query %q produced record not in input: %v", q, r)
			}
		}
	}
}

func TestFilterMissingFields(t *testing.T) {
	records := []Record{{ID: "r1", Type: TypeDonation}}
	if got := Filter(records, FilterAll, "anything"); len(got) != 0 {
		t.Errorf("expected no match against empty fields, got %v", got)
	}
	if got := Filter(records, FilterAll, ""); len(got) != 1 {
		t.Errorf("empty query should match record with empty fields")
	}
}
