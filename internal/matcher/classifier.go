// Package matcher pairs markets across venues that describe the same
// real-world question. Each market is classified once (category, named
// entities, sports teams, years); candidate pairs are then pruned by
// category, gated on entity/year/date/team agreement, and scored into a
// [0,1] confidence.
package matcher

import (
	"regexp"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// entityPattern is a named word-boundary regex for people, assets, macro
// terms, and named events.
type entityPattern struct {
	name string
	re   *regexp.Regexp
}

// category maps a name to the keyword list that identifies it. Categories
// are ordered; the first with two or more keyword hits wins.
type category struct {
	name     string
	keywords []string
}

var nbaTeams = []string{
	"celtics", "nets", "knicks", "76ers", "raptors",
	"bulls", "cavaliers", "pistons", "pacers", "bucks",
	"hawks", "hornets", "heat", "magic", "wizards",
	"nuggets", "timberwolves", "thunder", "trail blazers", "jazz",
	"warriors", "clippers", "lakers", "suns", "kings",
	"mavericks", "rockets", "grizzlies", "pelicans", "spurs",
}

var nflTeams = []string{
	"patriots", "bills", "dolphins", "jets",
	"steelers", "ravens", "bengals", "browns",
	"texans", "colts", "jaguars", "titans",
	"chiefs", "raiders", "chargers", "broncos",
	"eagles", "commanders", "giants", "cowboys",
	"packers", "bears", "vikings", "lions",
	"buccaneers", "saints", "falcons", "panthers",
	"49ers", "seahawks", "rams", "cardinals",
}

// sportsCategories are categories where a match additionally requires team
// overlap on both sides.
var sportsCategories = map[string]struct{}{
	"nba": {}, "nfl": {}, "soccer": {}, "mlb": {},
}

// processed is a market with its classification computed once per scan.
type processed struct {
	market   *domain.Market
	text     string
	entities map[string]struct{}
	teams    map[string]struct{}
	years    map[string]struct{}
	category string
}

func newEntityPatterns() []entityPattern {
	pats := []struct{ name, expr string }{
		{"trump", `\btrump\b`},
		{"biden", `\bbiden\b`},
		{"harris", `\bharris\b`},
		{"desantis", `\bdesantis\b`},
		{"vance", `\bvance\b`},
		{"newsom", `\bnewsom\b`},
		{"haley", `\bhaley\b`},
		{"obama", `\bobama\b`},
		{"bitcoin", `\b(bitcoin|btc)\b`},
		{"ethereum", `\b(ethereum|eth)\b`},
		{"solana", `\b(solana|sol)\b`},
		{"fed", `\b(fed|federal reserve|fomc)\b`},
		{"inflation", `\binflation\b`},
		{"recession", `\brecession\b`},
		{"super_bowl", `\bsuper bowl\b`},
		{"nba_finals", `\bnba finals?\b`},
		{"world_series", `\bworld series\b`},
		{"world_cup", `\bworld cup\b`},
		{"champions_league", `\bchampions league\b`},
	}
	out := make([]entityPattern, 0, len(pats))
	for _, p := range pats {
		out = append(out, entityPattern{name: p.name, re: regexp.MustCompile(p.expr)})
	}
	return out
}

func newCategories() []category {
	return []category{
		{"us_politics", []string{"trump", "biden", "harris", "desantis", "president", "election", "congress", "senate", "republican", "democrat", "white house"}},
		{"crypto", []string{"bitcoin", "ethereum", "btc", "eth", "crypto", "solana"}},
		{"economics", []string{"fed", "inflation", "recession", "gdp", "interest rate", "unemployment"}},
		{"nba", []string{"nba", "basketball", "lakers", "celtics", "warriors", "finals"}},
		{"nfl", []string{"nfl", "super bowl", "football", "patriots", "chiefs"}},
		{"soccer", []string{"world cup", "fifa", "soccer", "premier league", "champions league"}},
		{"mlb", []string{"mlb", "baseball", "world series"}},
		{"ai_tech", []string{"openai", "chatgpt", "google", "apple", "tesla", "nvidia", "ai"}},
	}
}

// process classifies one market. The lower-cased text is built once; entity
// regexes assume lower-cased input.
func (m *Matcher) process(mkt *domain.Market) processed {
	text := strings.ToLower(mkt.DisplayQuestion())

	entities := make(map[string]struct{})
	for _, p := range m.entityPatterns {
		if p.re.MatchString(text) {
			entities[p.name] = struct{}{}
		}
	}
	for _, term := range m.extraTerms {
		if strings.Contains(text, term) {
			entities[term] = struct{}{}
		}
	}

	teams := make(map[string]struct{})
	for _, t := range m.teams {
		if strings.Contains(text, t) {
			teams[t] = struct{}{}
		}
	}

	return processed{
		market:   mkt,
		text:     text,
		entities: entities,
		teams:    teams,
		years:    m.extractYears(text),
		category: m.classify(text),
	}
}

// classify returns the first category with at least two keyword hits, or ""
// when none matches. Uncategorized markets are excluded from matching.
func (m *Matcher) classify(text string) string {
	for _, c := range m.categories {
		hits := 0
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				hits++
				if hits >= 2 {
					return c.name
				}
			}
		}
	}
	return ""
}

// extractYears collects 4-digit years in 2020-2039 plus both endpoints of
// "YYYY-YYYY" season ranges.
func (m *Matcher) extractYears(text string) map[string]struct{} {
	years := make(map[string]struct{})
	for _, match := range m.yearRE.FindAllStringSubmatch(text, -1) {
		years[match[1]] = struct{}{}
	}
	for _, match := range m.seasonRE.FindAllStringSubmatch(text, -1) {
		years[match[1]] = struct{}{}
		years[match[2]] = struct{}{}
	}
	return years
}

// closeDatesFarApart reports whether both markets carry close dates more
// than 90 days apart. Missing dates never disqualify.
func closeDatesFarApart(a, b *domain.Market) bool {
	if a.CloseDate == nil || b.CloseDate == nil {
		return false
	}
	gap := a.CloseDate.Sub(*b.CloseDate)
	if gap < 0 {
		gap = -gap
	}
	return gap > 90*24*time.Hour
}
