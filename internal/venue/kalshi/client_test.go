package kalshi

import (
	"context"
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

func f64(v float64) *float64 { return &v }

func TestAPIMarketToMarket(t *testing.T) {
	am := APIMarket{
		Ticker:      "TRUMP-28",
		EventTicker: "ELECTION-28",
		Title:       "Trump wins the election",
		Subtitle:    "2028 general",
		YesAsk:      f64(40),
		YesBid:      f64(38),
		NoAsk:       f64(55),
		Volume:      9000,
		CloseTime:   "2028-11-07T00:00:00Z",
	}

	m := am.ToMarket()
	if m.Venue != domain.VenueKalshi {
		t.Errorf("Venue = %q", m.Venue)
	}
	// Ask preferred over bid, cents to dollars.
	if m.YesPrice() != 0.40 {
		t.Errorf("YesPrice = %v, want 0.40", m.YesPrice())
	}
	if m.NoPrice() != 0.55 {
		t.Errorf("NoPrice = %v, want 0.55", m.NoPrice())
	}
	if m.URL != "https://kalshi.com/markets/ELECTION-28" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.CloseDate == nil || m.CloseDate.Year() != 2028 {
		t.Errorf("CloseDate = %v", m.CloseDate)
	}
}

func TestCentsToPriceFallbacks(t *testing.T) {
	if got := centsToPrice(nil, f64(38)); got != 0.38 {
		t.Errorf("bid fallback = %v, want 0.38", got)
	}
	if got := centsToPrice(nil, nil); got != 0 {
		t.Errorf("no quotes = %v, want 0", got)
	}
}

func TestAPIMarketURLFallsBackToTicker(t *testing.T) {
	am := APIMarket{Ticker: "T1"}
	if m := am.ToMarket(); m.URL != "https://kalshi.com/markets/T1" {
		t.Errorf("URL = %q", m.URL)
	}
}

func TestFetchMarketsFollowsCursor(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprintf(w, `{"markets":[{"ticker":"A","title":"Trump election market","yes_ask":40,"no_ask":55,"close_time":%q}],"cursor":"next"}`, future)
		case "next":
			fmt.Fprintf(w, `{"markets":[{"ticker":"B","title":"Another election market","yes_ask":30,"no_ask":65,"close_time":%q}],"cursor":""}`, future)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 10, nil, testLogger())
	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("FetchMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("got %d markets, want 2", len(markets))
	}
	if markets[0].ID != "A" || markets[1].ID != "B" {
		t.Errorf("ids = %s, %s", markets[0].ID, markets[1].ID)
	}
}

func TestFetchMarketsKeywordFilter(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"markets":[
			{"ticker":"POL","title":"Election winner","close_time":%q},
			{"ticker":"WX","title":"High temperature in Austin","close_time":%q}
		],"cursor":""}`, future, future)
	}))
	defer srv.Close()

	c := New(srv.URL, 10, []string{"election"}, testLogger())
	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("FetchMarkets: %v", err)
	}
	if len(markets) != 1 || markets[0].ID != "POL" {
		t.Fatalf("filter kept %+v, want only POL", markets)
	}
}
