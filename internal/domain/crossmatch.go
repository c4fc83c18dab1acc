package domain

// CrossMatch is an immutable pairing of two markets on different venues that
// the entity matcher believes describe the same real-world question.
type CrossMatch struct {
	VenueA         Venue    `json:"venue_a"`
	VenueB         Venue    `json:"venue_b"`
	IDA            string   `json:"id_a"`
	IDB            string   `json:"id_b"`
	QuestionA      string   `json:"question_a"`
	QuestionB      string   `json:"question_b"`
	YesPriceA      float64  `json:"yes_price_a"`
	YesPriceB      float64  `json:"yes_price_b"`
	PriceDiff      float64  `json:"price_diff"`
	Confidence     float64  `json:"confidence"`
	Category       string   `json:"category"`
	SharedEntities []string `json:"shared_entities"`
	URLA           string   `json:"url_a"`
	URLB           string   `json:"url_b"`
}

// AlertID returns the stable dedup key for this match. It must be identical
// for the same market pair on every scan cycle.
func (m *CrossMatch) AlertID() string {
	return "cross_" + m.IDA + "_" + m.IDB
}
