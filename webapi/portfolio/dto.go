package portfolio

// AddHoldingInput represents the request body for a new position.
type AddHoldingInput struct {
	Ticker      string `json:"ticker" validate:"required,min=1,max=32"`
	Quantity    string `json:"quantity" validate:"required"`
	AvgBuyPrice string `json:"avg_buy_price" validate:"required"`
}

// UpdateHoldingInput overwrites only the supplied fields.
type UpdateHoldingInput struct {
	Quantity    *string `json:"quantity,omitempty"`
	AvgBuyPrice *string `json:"avg_buy_price,omitempty"`
}
