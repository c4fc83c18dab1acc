package matcher

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func testMatcher() *Matcher {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	m := testMatcher()
	tests := []struct {
		text string
		want string
	}{
		{"will trump win the presidential election?", "us_politics"},
		{"will bitcoin hit a new high? crypto markets watch", "crypto"},
		{"fed rate decision amid inflation concerns", "economics"},
		{"lakers vs celtics in the nba", "nba"},
		{"chiefs to win the super bowl", "nfl"},
		{"premier league and champions league winners", "soccer"},
		{"world series mlb champion", "mlb"},
		{"openai and google race on ai", "ai_tech"},
		// One keyword hit is not enough.
		{"will the president visit?", ""},
		{"will it rain tomorrow?", ""},
	}
	for _, tt := range tests {
		if got := m.classify(tt.text); got != tt.want {
			t.Errorf("classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestProcessEntitiesAndYears(t *testing.T) {
	m := testMatcher()
	mkt := domain.Market{
		ID:       "x",
		Question: "Will Trump win the 2028 election?",
		Venue:    domain.VenuePolymarket,
	}
	p := m.process(&mkt)

	for _, want := range []string{"trump", "election", "win"} {
		if _, ok := p.entities[want]; !ok {
			t.Errorf("entity %q missing from %v", want, p.entities)
		}
	}
	if _, ok := p.years["2028"]; !ok {
		t.Errorf("year 2028 missing from %v", p.years)
	}
	if p.category != "us_politics" {
		t.Errorf("category = %q, want us_politics", p.category)
	}
}

func TestEntityWordBoundaries(t *testing.T) {
	m := testMatcher()
	mkt := domain.Market{Question: "will trumpet sales eclipse bidens?"}
	p := m.process(&mkt)
	if _, ok := p.entities["trump"]; ok {
		t.Errorf("'trumpet' matched the trump entity")
	}
	if _, ok := p.entities["biden"]; ok {
		t.Errorf("'bidens' matched the biden entity")
	}
}

func TestSeasonRangeYears(t *testing.T) {
	m := testMatcher()
	years := m.extractYears("nba finals 2027-2028 season")
	for _, y := range []string{"2027", "2028"} {
		if _, ok := years[y]; !ok {
			t.Errorf("year %q missing from %v", y, years)
		}
	}
}

func politicsPair(yearA, yearB string) (domain.Market, domain.Market) {
	a := domain.Market{
		ID:            "pm-1",
		Question:      "Will Trump win the " + yearA + " presidential election?",
		OutcomePrices: []float64{0.55, 0.45},
		Venue:         domain.VenuePolymarket,
		URL:           "https://polymarket.com/event/x",
	}
	b := domain.Market{
		ID:            "kx-1",
		Title:         "Trump wins the " + yearB + " presidential election",
		OutcomePrices: []float64{0.50, 0.50},
		Venue:         domain.VenueKalshi,
		URL:           "https://kalshi.com/markets/x",
	}
	return a, b
}

func TestMatchAllFindsEquivalentMarkets(t *testing.T) {
	m := testMatcher()
	a, b := politicsPair("2028", "2028")

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	cm := matches[0]
	if cm.IDA != "kx-1" || cm.IDB != "pm-1" {
		// Venue pairs are visited in lexicographic order, Kalshi first.
		t.Errorf("ids = %s/%s, want kx-1/pm-1", cm.IDA, cm.IDB)
	}
	if cm.Category != "us_politics" {
		t.Errorf("category = %q", cm.Category)
	}
	if cm.Confidence < 0.5 || cm.Confidence > 1.0 {
		t.Errorf("confidence %v outside [0.5, 1]", cm.Confidence)
	}
	if !floatEq(cm.PriceDiff, 0.05) {
		t.Errorf("price diff = %v, want 0.05", cm.PriceDiff)
	}
	if len(cm.SharedEntities) < 2 {
		t.Errorf("shared entities = %v, want at least 2", cm.SharedEntities)
	}
}

func TestMatchAllRejectsDifferentYears(t *testing.T) {
	m := testMatcher()
	a, b := politicsPair("2024", "2028")

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 0 {
		t.Fatalf("markets about different years matched: %+v", matches)
	}
}

func TestMatchAllRejectsFarCloseDates(t *testing.T) {
	m := testMatcher()
	a, b := politicsPair("2028", "2028")
	ta := time.Date(2028, 11, 7, 0, 0, 0, 0, time.UTC)
	tb := ta.Add(120 * 24 * time.Hour)
	a.CloseDate = &ta
	b.CloseDate = &tb

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 0 {
		t.Fatalf("markets closing 120 days apart matched")
	}
}

func TestMatchAllSportsRequireTeamOverlap(t *testing.T) {
	m := testMatcher()

	a := domain.Market{
		ID:            "pm-nba",
		Question:      "Will the Lakers win the 2028 NBA Finals?",
		OutcomePrices: []float64{0.2, 0.8},
		Venue:         domain.VenuePolymarket,
	}
	b := domain.Market{
		ID:            "kx-nba",
		Title:         "Celtics win the 2028 NBA Finals",
		OutcomePrices: []float64{0.3, 0.7},
		Venue:         domain.VenueKalshi,
	}

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 0 {
		t.Fatalf("different teams matched: %+v", matches)
	}

	// Same team on both sides should match, with the team bonus lifting
	// confidence above the floor.
	b.Title = "Lakers win the 2028 NBA Finals"
	matches = m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches for same-team markets, want 1", len(matches))
	}
	if matches[0].Category != "nba" {
		t.Errorf("category = %q, want nba", matches[0].Category)
	}
}

func TestMatchAllSortedByConfidence(t *testing.T) {
	m := testMatcher()

	weak := domain.Market{
		ID:            "pm-weak",
		Question:      "Will Trump win the election?",
		OutcomePrices: []float64{0.5, 0.5},
		Venue:         domain.VenuePolymarket,
	}
	strong := domain.Market{
		ID:            "pm-strong",
		Question:      "Will Trump win the 2028 presidential election?",
		OutcomePrices: []float64{0.5, 0.5},
		Venue:         domain.VenuePolymarket,
	}
	other := domain.Market{
		ID:            "kx-strong",
		Title:         "Trump wins the 2028 presidential election",
		OutcomePrices: []float64{0.5, 0.5},
		Venue:         domain.VenueKalshi,
	}

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {weak, strong},
		domain.VenueKalshi:     {other},
	})
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Confidence < matches[i].Confidence {
			t.Fatalf("matches not sorted by confidence: %v then %v",
				matches[i-1].Confidence, matches[i].Confidence)
		}
	}
}

func TestMatchAllDeterministic(t *testing.T) {
	m := testMatcher()
	a, b := politicsPair("2028", "2028")
	nbaA := domain.Market{
		ID:            "pm-nba",
		Question:      "Will the Lakers win the 2028 NBA Finals?",
		OutcomePrices: []float64{0.2, 0.8},
		Venue:         domain.VenuePolymarket,
	}
	nbaB := domain.Market{
		ID:            "kx-nba",
		Title:         "Lakers win the 2028 NBA Finals",
		OutcomePrices: []float64{0.3, 0.7},
		Venue:         domain.VenueKalshi,
	}
	byVenue := map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a, nbaA},
		domain.VenueKalshi:     {b, nbaB},
	}

	first := m.MatchAll(context.Background(), byVenue)
	if len(first) == 0 {
		t.Fatal("no matches from snapshot")
	}
	second := m.MatchAll(context.Background(), byVenue)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated MatchAll differs:\n%+v\n%+v", first, second)
	}
}

func TestDedupMatches(t *testing.T) {
	in := []domain.CrossMatch{
		{IDA: "a", IDB: "b", Confidence: 0.9},
		{IDA: "a", IDB: "b", Confidence: 0.7},
		{IDA: "a", IDB: "c", Confidence: 0.6},
	}
	out := dedupMatches(in)
	if len(out) != 2 {
		t.Fatalf("got %d matches, want 2", len(out))
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("dedup kept the later duplicate")
	}
}

func TestConfidenceClamped(t *testing.T) {
	shared := []string{"a", "b", "c", "d", "e", "f"}
	years := map[string]struct{}{"2028": {}}
	teams := []string{"lakers", "celtics"}
	if got := confidence(shared, years, years, teams, true); got != 1.0 {
		t.Errorf("confidence = %v, want clamp at 1.0", got)
	}
}

func TestQuestionTruncation(t *testing.T) {
	m := testMatcher()
	long := "Will Trump win the 2028 presidential election"
	for len(long) < 150 {
		long += " with extra qualifiers"
	}
	a, b := politicsPair("2028", "2028")
	a.Question = long

	matches := m.MatchAll(context.Background(), map[domain.Venue][]domain.Market{
		domain.VenuePolymarket: {a},
		domain.VenueKalshi:     {b},
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	for _, q := range []string{matches[0].QuestionA, matches[0].QuestionB} {
		if n := len([]rune(q)); n > 100 {
			t.Errorf("question carried %d runes, want <= 100", n)
		}
	}
}

func floatEq(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
