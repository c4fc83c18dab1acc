package polymarket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAPIMarketToMarket(t *testing.T) {
	am := APIMarket{
		ID:            "123",
		Question:      "Will it happen?",
		Slug:          "will-it-happen",
		OutcomePrices: `["0.45", "0.52"]`,
		Liquidity:     "1234.5",
		EndDateISO:    "2028-11-07T00:00:00Z",
		Events:        []APIEvent{{Slug: "the-event"}},
	}

	m := am.ToMarket()
	if m.Venue != domain.VenuePolymarket {
		t.Errorf("Venue = %q", m.Venue)
	}
	if m.YesPrice() != 0.45 || m.NoPrice() != 0.52 {
		t.Errorf("prices = %v", m.OutcomePrices)
	}
	if m.Liquidity != 1234.5 {
		t.Errorf("Liquidity = %v", m.Liquidity)
	}
	if m.URL != "https://polymarket.com/event/the-event/will-it-happen" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.CloseDate == nil || m.CloseDate.Year() != 2028 {
		t.Errorf("CloseDate = %v", m.CloseDate)
	}
}

func TestAPIMarketToMarketBadPrices(t *testing.T) {
	am := APIMarket{ID: "1", OutcomePrices: `not json`}
	m := am.ToMarket()
	if len(m.OutcomePrices) != 0 {
		t.Errorf("unparseable prices should be empty, got %v", m.OutcomePrices)
	}
}

func TestAPIMarketPublicURLEventOnly(t *testing.T) {
	am := APIMarket{Events: []APIEvent{{Slug: "ev"}}}
	if got := am.publicURL(); got != "https://polymarket.com/event/ev" {
		t.Errorf("publicURL = %q", got)
	}
	var none APIMarket
	if got := none.publicURL(); got != "" {
		t.Errorf("publicURL with no slugs = %q", got)
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true}, {`false`, false}, {`"true"`, true}, {`"True"`, true}, {`"1"`, true}, {`"false"`, false},
	}
	for _, tt := range tests {
		var f flexBool
		if err := f.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", tt.in, err)
		}
		if bool(f) != tt.want {
			t.Errorf("flexBool(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestFetchMarketsPagesAndFilters(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0":
			fmt.Fprintf(w, `[
				{"id":"open","question":"Will Trump win the election?","outcomePrices":"[\"0.5\",\"0.5\"]","endDateIso":%q},
				{"id":"closed","question":"Will Biden run again?","closed":true},
				{"id":"expired","question":"Expired election market","endDateIso":%q},
				{"id":"offtopic","question":"Will it rain in Paris?","outcomePrices":"[\"0.5\",\"0.5\"]"}
			]`, future, past)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 10, []string{"election", "trump"}, testLogger())
	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("FetchMarkets: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("got %d markets, want 1: %+v", len(markets), markets)
	}
	if markets[0].ID != "open" {
		t.Errorf("kept %q, want open", markets[0].ID)
	}
	if markets[0].YesPrice() != 0.5 || markets[0].NoPrice() != 0.5 {
		t.Errorf("prices = %v, want [0.5 0.5]", markets[0].OutcomePrices)
	}
}

func TestParseOutcomePrices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []float64
	}{
		{"quoted numbers", `["0.45", "0.52"]`, []float64{0.45, 0.52}},
		{"bare numbers", `[0.45, 0.52]`, []float64{0.45, 0.52}},
		{"mixed", `[0.3, "0.7"]`, []float64{0.3, 0.7}},
		{"empty string", ``, nil},
		{"not an array", `not json`, nil},
		{"non-numeric element", `["0.5", "abc"]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOutcomePrices(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseOutcomePrices(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseOutcomePrices(%q)[%d] = %v, want %v", tt.raw, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFetchMarketsRespectsMaxPages(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		fmt.Fprint(w, `[{"id":"m","question":"any"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, 3, nil, testLogger())
	if _, err := c.FetchMarkets(context.Background()); err != nil {
		t.Fatalf("FetchMarkets: %v", err)
	}
	if pages != 3 {
		t.Errorf("server saw %d pages, want 3", pages)
	}
}

func TestFetchMarketsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, 1, nil, testLogger())
	_, err := c.FetchMarkets(context.Background())
	if err == nil {
		t.Fatal("FetchMarkets succeeded on 429")
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("error %v does not wrap ErrRateLimited", err)
	}
}
