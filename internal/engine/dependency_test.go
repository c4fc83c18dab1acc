package engine

import "testing"

func TestDetectDependenciesImplication(t *testing.T) {
	texts := []string{
		"will trump win the 2028 election?",
		"will a republican win the 2028 election?",
		"will it rain tomorrow?",
	}

	deps := detectDependencies(texts)
	if len(deps) != 1 {
		t.Fatalf("got %d dependencies, want 1: %+v", len(deps), deps)
	}
	d := deps[0]
	if d.implying != 0 || d.implied != 1 || d.kind != depImplies {
		t.Errorf("dependency = %+v, want {0 1 implies}", d)
	}
}

func TestDetectDependenciesSubset(t *testing.T) {
	texts := []string{
		"will bitcoin reach $150k this year?",
		"will bitcoin reach $100k this year?",
	}

	deps := detectDependencies(texts)
	// The $150k market is a strict subset of the $100k market; both texts
	// share the "bitcoin" subject so the subset check cross-joins them.
	if len(deps) == 0 {
		t.Fatal("no dependencies detected")
	}
	for _, d := range deps {
		if d.implying != 0 || d.implied != 1 {
			t.Errorf("dependency %+v points the wrong way", d)
		}
	}
}

func TestDetectDependenciesNoSelfPairs(t *testing.T) {
	// One market containing both sides of a pattern must not imply itself.
	texts := []string{"trump win means republican win"}
	for _, d := range detectDependencies(texts) {
		if d.implying == d.implied {
			t.Errorf("self dependency %+v", d)
		}
	}
}

func TestIsSubsetText(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"specific into general", "lakers win by 10+", "lakers win", true},
		{"general has specific too", "lakers win by 10+", "lakers win by 10+ again", false},
		{"no pattern", "lakers lose", "lakers win", false},
		{"reversed", "lakers win", "lakers win by 10+", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSubsetText(tt.a, tt.b); got != tt.want {
				t.Errorf("isSubsetText(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
