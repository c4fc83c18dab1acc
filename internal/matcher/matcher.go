package matcher

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"sort"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// minConfidence is the floor below which a candidate pair is rejected.
const minConfidence = 0.5

// minSharedEntities is the minimum entity overlap for a candidate pair.
const minSharedEntities = 2

// maxQuestionLen bounds question text carried on a match record.
const maxQuestionLen = 100

// Matcher finds markets on different venues that resolve on the same
// underlying event. All tables are built once in New; a Matcher is safe for
// concurrent use.
type Matcher struct {
	entityPatterns []entityPattern
	extraTerms     []string
	categories     []category
	teams          []string
	yearRE         *regexp.Regexp
	seasonRE       *regexp.Regexp
	logger         *slog.Logger
}

func New(logger *slog.Logger) *Matcher {
	teams := make([]string, 0, len(nbaTeams)+len(nflTeams))
	teams = append(teams, nbaTeams...)
	teams = append(teams, nflTeams...)
	return &Matcher{
		entityPatterns: newEntityPatterns(),
		extraTerms:     []string{"president", "election", "win", "price", "champion", "finals", "nominee"},
		categories:     newCategories(),
		teams:          teams,
		yearRE:         regexp.MustCompile(`\b(202[0-9]|203[0-9])\b`),
		seasonRE:       regexp.MustCompile(`\b(202[0-9])-(202[0-9])\b`),
		logger:         logger.With(slog.String("component", "matcher")),
	}
}

// MatchAll compares every pair of venues and returns the cross-venue
// matches, deduplicated and sorted by confidence. Venue pairs are visited
// in lexicographic order so results are deterministic for a given input.
func (m *Matcher) MatchAll(ctx context.Context, byVenue map[domain.Venue][]domain.Market) []domain.CrossMatch {
	venues := make([]domain.Venue, 0, len(byVenue))
	for v := range byVenue {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })

	var all []domain.CrossMatch
	for i := 0; i < len(venues); i++ {
		for j := i + 1; j < len(venues); j++ {
			if ctx.Err() != nil {
				return nil
			}
			pairMatches := m.matchPair(byVenue[venues[i]], byVenue[venues[j]])
			m.logger.Debug("venue pair matched",
				slog.String("venue_a", string(venues[i])),
				slog.String("venue_b", string(venues[j])),
				slog.Int("matches", len(pairMatches)))
			all = append(all, pairMatches...)
		}
	}

	all = dedupMatches(all)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })
	return all
}

// matchPair matches markets from venue A against venue B. B is indexed by
// category so each A market only meets plausible candidates.
func (m *Matcher) matchPair(marketsA, marketsB []domain.Market) []domain.CrossMatch {
	byCategory := make(map[string][]processed)
	for i := range marketsB {
		p := m.process(&marketsB[i])
		if p.category == "" {
			continue
		}
		byCategory[p.category] = append(byCategory[p.category], p)
	}

	var out []domain.CrossMatch
	for i := range marketsA {
		pa := m.process(&marketsA[i])
		if pa.category == "" {
			continue
		}
		for _, pb := range byCategory[pa.category] {
			shared := intersect(pa.entities, pb.entities)
			if len(shared) < minSharedEntities {
				continue
			}
			if len(pa.years) > 0 && len(pb.years) > 0 && !setsOverlap(pa.years, pb.years) {
				continue
			}
			if closeDatesFarApart(pa.market, pb.market) {
				continue
			}
			_, isSports := sportsCategories[pa.category]
			sharedTeams := intersect(pa.teams, pb.teams)
			if isSports {
				if len(pa.teams) == 0 || len(pb.teams) == 0 || len(sharedTeams) == 0 {
					continue
				}
			}

			conf := confidence(shared, pa.years, pb.years, sharedTeams, isSports)
			if conf < minConfidence {
				continue
			}
			out = append(out, m.buildMatch(pa, pb, shared, conf))
		}
	}
	return out
}

// confidence scores a candidate pair: 0.2 per shared entity, 0.3 for year
// agreement, and 0.3 per shared team in sports categories, clamped to 1.
func confidence(shared []string, yearsA, yearsB map[string]struct{}, sharedTeams []string, sports bool) float64 {
	score := 0.2 * float64(len(shared))
	if setsOverlap(yearsA, yearsB) {
		score += 0.3
	}
	if sports {
		score += 0.3 * float64(len(sharedTeams))
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func (m *Matcher) buildMatch(pa, pb processed, shared []string, conf float64) domain.CrossMatch {
	ya := pa.market.YesPrice()
	yb := pb.market.YesPrice()
	return domain.CrossMatch{
		VenueA:         pa.market.Venue,
		VenueB:         pb.market.Venue,
		IDA:            pa.market.ID,
		IDB:            pb.market.ID,
		QuestionA:      truncateRunes(pa.market.DisplayQuestion(), maxQuestionLen),
		QuestionB:      truncateRunes(pb.market.DisplayQuestion(), maxQuestionLen),
		YesPriceA:      ya,
		YesPriceB:      yb,
		PriceDiff:      round4(math.Abs(ya - yb)),
		Confidence:     conf,
		Category:       pa.category,
		SharedEntities: shared,
		URLA:           pa.market.URL,
		URLB:           pb.market.URL,
	}
}

// dedupMatches keeps the first match per (IDA, IDB) pair.
func dedupMatches(matches []domain.CrossMatch) []domain.CrossMatch {
	seen := make(map[[2]string]struct{}, len(matches))
	out := matches[:0]
	for _, cm := range matches {
		key := [2]string{cm.IDA, cm.IDB}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cm)
	}
	return out
}

// intersect returns the sorted intersection of two string sets.
func intersect(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func setsOverlap(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
