package domain

// SentinelRate marks a numeric field whose source text failed to parse as a
// number. A single bad cell never discards the rest of the quote.
const SentinelRate = -1

type LiveQuote struct {
	Pair string  `json:"pair"`
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}
