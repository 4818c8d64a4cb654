package database

import "testing"

func TestGroupMembersNamed(t *testing.T) {
	g := &Group{Members: []Member{
		{ID: "1", Name: "Kaito"},
		{ID: "2", Name: "Aoi"},
		{ID: "3", Name: "kaito"},
		{ID: "4", Name: "Aoi"},
	}}

	tests := []struct {
		name string
		want int
	}{
		{"Kaito", 1},
		{"kaito", 1},
		{"Aoi", 2},
		{"KAITO", 0},
		{"", 0},
		{"Kaito ", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(g.MembersNamed(tc.name)); got != tc.want {
				t.Errorf("MembersNamed(%q) returned %d members, want %d", tc.name, got, tc.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Kaito ", "Kaito"},
		{"\u304b\u3099", "\u304c"}, // ka + combining dakuten composes to ga
		{"Jose\u0301", "Jos\u00e9"},
		{"KAITO", "KAITO"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGroupMembersNamed_CanonicalEquivalence(t *testing.T) {
	g := &Group{Members: []Member{{ID: "1", Name: "\u304c\u304f"}}}
	if got := g.MembersNamed("\u304b\u3099\u304f"); len(got) != 1 {
		t.Errorf("expected decomposed name to match, got %d members", len(got))
	}
}
