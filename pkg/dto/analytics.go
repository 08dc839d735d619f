package dto

import "github.com/shopspring/decimal"

// CategoryTotal is the summed spend or income for one category in a range.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	IsIncome bool            `json:"is_income"`
	Icon     string          `json:"icon"`
}

// CategoryAnalysis splits a period's live transactions into income and spend.
type CategoryAnalysis struct {
	TotalIncome decimal.Decimal `json:"total_income"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	NetIncome   decimal.Decimal `json:"net_income"`
	Categories  []CategoryTotal `json:"categories"`
}

// NetWorth decomposes a user's net worth. TotalNetWorth is always
// CashBalance + InvestmentBalance.
type NetWorth struct {
	CashBalance       decimal.Decimal `json:"cash_balance"`
	InvestmentBalance decimal.Decimal `json:"investment_balance"`
	TotalNetWorth     decimal.Decimal `json:"total_net_worth"`
}
