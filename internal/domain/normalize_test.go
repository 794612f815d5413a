package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Room 101  ", want: "room 101"},
		{name: "lowercase", input: "Main Hall", want: "main hall"},
		{name: "compress multiple spaces", input: "lecture   hall", want: "lecture hall"},
		{name: "diacritics preserved", input: "Université", want: "université"},
		{name: "hyphens preserved", input: "north-wing", want: "north-wing"},
		{name: "apostrophes preserved", input: "Dean's Office", want: "dean's office"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "mixed", input: "  Physics   Lab  ", want: "physics lab"},
		{name: "tabs collapse to space", input: "room\t\t101", want: "room 101"},
		{name: "fullwidth NFKC fold", input: "Ｒｏｏｍ １０１", want: "room 101"},
		{name: "ligature NFKC fold", input: "ﬁrst floor", want: "first floor"},
		{name: "unicode diacritics", input: "Dvořák Auditorium", want: "dvořák auditorium"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
