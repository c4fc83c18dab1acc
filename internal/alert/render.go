package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// RenderOpportunity formats an arbitrage opportunity as a title and Markdown
// body for delivery through a Sender.
func RenderOpportunity(opp *domain.Opportunity) (title, message string) {
	title = fmt.Sprintf("%s arbitrage", opp.Kind)

	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s\n\n", opp.Action)
	fmt.Fprintf(&b, "Buy YES: $%.4f\n", opp.BuyYesPrice)
	fmt.Fprintf(&b, "Buy NO: $%.4f\n", opp.BuyNoPrice)
	fmt.Fprintf(&b, "Total cost: $%.4f\n", opp.TotalCost)
	fmt.Fprintf(&b, "Gross profit: $%.4f\n", opp.GrossProfit)
	fmt.Fprintf(&b, "Net after fees: $%.4f\n", opp.NetProfit)
	fmt.Fprintf(&b, "ROI: %.2f%%\n", opp.ROIPercent)
	fmt.Fprintf(&b, "Suggested position: $%.2f (25%% Kelly)\n\n", opp.SuggestedPosition)
	fmt.Fprintf(&b, "Market: %s\n", opp.Description)
	fmt.Fprintf(&b, "Venues: %s / %s", opp.VenueA, opp.VenueB)
	if link := renderLinks(opp.URLA, opp.URLB); link != "" {
		b.WriteString("\n")
		b.WriteString(link)
	}
	return title, b.String()
}

// RenderCrossMatch formats a cross-venue market match with its price spread
// and confidence.
func RenderCrossMatch(m *domain.CrossMatch) (title, message string) {
	title = "Cross-venue match"

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", m.VenueA, m.QuestionA)
	fmt.Fprintf(&b, "%s: %s\n\n", m.VenueB, m.QuestionB)
	fmt.Fprintf(&b, "YES %s: $%.4f\n", m.VenueA, m.YesPriceA)
	fmt.Fprintf(&b, "YES %s: $%.4f\n", m.VenueB, m.YesPriceB)
	fmt.Fprintf(&b, "Spread: $%.4f\n", m.PriceDiff)
	fmt.Fprintf(&b, "Confidence: %.2f\n", m.Confidence)
	fmt.Fprintf(&b, "Category: %s\n", m.Category)
	if len(m.SharedEntities) > 0 {
		fmt.Fprintf(&b, "Shared: %s", strings.Join(m.SharedEntities, ", "))
	}
	if link := renderLinks(m.URLA, m.URLB); link != "" {
		b.WriteString("\n")
		b.WriteString(link)
	}
	return title, b.String()
}

// RenderStartup formats the scanner-online announcement.
func RenderStartup(venues []string, interval time.Duration) (title, message string) {
	title = "Arbitrage scanner online"

	var b strings.Builder
	fmt.Fprintf(&b, "Sources: %s\n", strings.Join(venues, " + "))
	b.WriteString("Strategies:\n")
	b.WriteString("- single venue (YES+NO < $1)\n")
	b.WriteString("- multi outcome (sum < $1)\n")
	b.WriteString("- combinatorial (implication mispricing)\n")
	b.WriteString("- cross venue hedging\n")
	fmt.Fprintf(&b, "Scan interval: %s", interval)
	return title, b.String()
}

// RenderSummary formats a per-cycle scan summary.
func RenderSummary(markets, opportunities, matches int, elapsed time.Duration) (title, message string) {
	title = "Scan summary"
	message = fmt.Sprintf("Markets: %d | Opportunities: %d | Matches: %d | Time: %dms",
		markets, opportunities, matches, elapsed.Milliseconds())
	return title, message
}

// renderLinks builds the Markdown link line for one or two market URLs.
func renderLinks(urlA, urlB string) string {
	switch {
	case urlA != "" && urlA == urlB:
		return fmt.Sprintf("[View market](%s)", urlA)
	case urlA != "" && urlB != "":
		return fmt.Sprintf("[Market A](%s) | [Market B](%s)", urlA, urlB)
	case urlA != "":
		return fmt.Sprintf("[View market](%s)", urlA)
	case urlB != "":
		return fmt.Sprintf("[View market](%s)", urlB)
	default:
		return ""
	}
}
