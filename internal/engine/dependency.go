package engine

import "strings"

// Logical-dependency inference between markets from text patterns. Two fixed
// tables drive it: implicationPatterns, where presence of the first phrase in
// a market's text implies the proposition described by the second, and
// subsetPatterns, where a market containing the specific phrase is a strict
// subset of one containing the general phrase (but not the specific one).
// Both tables are package constants in the sense of "never mutated"; they are
// only ever read.

type depKind string

const (
	depImplies depKind = "implies"
	depSubset  depKind = "subset"
)

// marketDependency records that markets[implying] logically implies
// markets[implied]. Indices refer to the snapshot passed to Analyze. The type
// never leaves the combinatorial detector.
type marketDependency struct {
	implying int
	implied  int
	kind     depKind
}

// implicationPatterns: if a market's text contains the first phrase, the
// market implies the proposition of the second phrase.
var implicationPatterns = [][2]string{
	// Politics
	{"trump win", "republican win"},
	{"trump wins", "republicans win"},
	{"biden win", "democrat win"},
	{"harris win", "democrat win"},
	{"landslide", "win"},
	{"win by 5+", "win"},
	{"win by 10+", "win by 5+"},
	// Crypto
	{"bitcoin 200k", "bitcoin 150k"},
	{"bitcoin 150k", "bitcoin 100k"},
	{"bitcoin 100k", "bitcoin 75k"},
	{"ethereum 10k", "ethereum 5k"},
	{"btc 200k", "btc 100k"},
	{"btc 100k", "btc 75k"},
	{"eth 10k", "eth 5k"},
	{"solana 500", "solana 300"},
	{"solana 300", "solana 200"},
	// Economics
	{"recession 2025", "gdp negative"},
	{"fed cut", "rate decrease"},
	{"fed cuts 3", "fed cuts 2"},
	{"fed cuts 2", "fed cut"},
	{"inflation below 2", "inflation below 3"},
	{"unemployment above 5", "unemployment above 4"},
	// Sports
	{"sweep", "win series"},
	{"win in 4", "win series"},
	{"win in 5", "win series"},
	{"win finals", "reach finals"},
	{"win championship", "reach playoffs"},
	{"super bowl win", "reach super bowl"},
	{"win mvp", "reach playoffs"},
	// AI & tech
	{"agi by 2026", "agi by 2030"},
	{"agi by 2027", "agi by 2030"},
	{"tesla 500", "tesla 400"},
	{"tesla 400", "tesla 300"},
	{"nvidia 200", "nvidia 150"},
	{"apple 250", "apple 200"},
	// General
	{"before march", "in 2025"},
	{"before june", "in 2025"},
	{"by q1", "in 2025"},
	{"by q2", "by end of year"},
}

// subsetPatterns: (specific, general) pairs for the stricter subset check.
// Market A is a subset of market B when A's text contains the specific phrase
// and B's text contains the general phrase but not the specific one.
var subsetPatterns = [][2]string{
	{"by 5+", "win"},
	{"by 10+", "win"},
	{"landslide", "win"},
	{"sweep", "win"},
	{"before march", "in 2025"},
	{"by june", "in 2025"},
	// Crypto price thresholds
	{"200k", "100k"},
	{"150k", "100k"},
	{"10k", "5k"},
	{"500", "300"},
	// Sports
	{"win in 4", "win series"},
	{"win in 5", "win series"},
	{"win finals", "reach finals"},
	// Fed
	{"cuts 3", "cut"},
	{"cuts 4", "cuts 2"},
}

// subjectKeywords groups markets by subject so the subset check only
// cross-joins markets about the same person, asset, team, or topic.
var subjectKeywords = []string{
	// Politics
	"trump", "biden", "harris", "republican", "democrat",
	// Crypto
	"bitcoin", "btc", "ethereum", "eth", "solana", "sol", "xrp", "doge",
	// Sports
	"lakers", "celtics", "warriors", "chiefs", "eagles", "yankees",
	"lebron", "curry", "mahomes", "messi", "ronaldo",
	// Tech / AI
	"tesla", "nvidia", "apple", "google", "openai", "agi",
	// Economics
	"fed", "inflation", "recession", "gdp", "unemployment",
}

// detectDependencies infers ordered (implying, implied) pairs over the
// snapshot. texts must be the lower-cased market texts, index-aligned with
// the snapshot. Markets are first indexed by which pattern side they match,
// so only pairs sharing a pattern are cross-joined rather than scanning the
// full n² pair space. Self-pairs are excluded; fan-out per market is
// unbounded.
func detectDependencies(texts []string) []marketDependency {
	var deps []marketDependency

	// Implication patterns: index markets by matched pattern side.
	matchA := make(map[int][]int, len(implicationPatterns))
	matchB := make(map[int][]int, len(implicationPatterns))
	for i, text := range texts {
		for p, pat := range implicationPatterns {
			if strings.Contains(text, pat[0]) {
				matchA[p] = append(matchA[p], i)
			}
			if strings.Contains(text, pat[1]) {
				matchB[p] = append(matchB[p], i)
			}
		}
	}
	for p := range implicationPatterns {
		for _, i := range matchA[p] {
			for _, j := range matchB[p] {
				if i == j {
					continue
				}
				deps = append(deps, marketDependency{implying: i, implied: j, kind: depImplies})
			}
		}
	}

	// Subset patterns: only cross-join markets sharing a subject keyword.
	groups := make(map[string][]int)
	for i, text := range texts {
		for _, subj := range subjectKeywords {
			if strings.Contains(text, subj) {
				groups[subj] = append(groups[subj], i)
			}
		}
	}
	for _, group := range groups {
		for _, i := range group {
			for _, j := range group {
				if i == j {
					continue
				}
				if isSubsetText(texts[i], texts[j]) {
					deps = append(deps, marketDependency{implying: i, implied: j, kind: depSubset})
				}
			}
		}
	}

	return deps
}

// isSubsetText reports whether textA describes a strict subset of textB per
// the subsetPatterns table.
func isSubsetText(textA, textB string) bool {
	for _, pat := range subsetPatterns {
		specific, general := pat[0], pat[1]
		if strings.Contains(textA, specific) &&
			strings.Contains(textB, general) &&
			!strings.Contains(textB, specific) {
			return true
		}
	}
	return false
}
