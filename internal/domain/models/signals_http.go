package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsHistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	Tier   int    `query:"tier" json:"tier" default:"3" validate:"gte=1,lte=3"`
}

type LiveScanRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type StateRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
