package dto

// CategoryRead is a global spending/income category.
type CategoryRead struct {
	ID                  int32  `json:"id"`
	Name                string `json:"name"`
	IsIncome            bool   `json:"is_income"`
	Icon                string `json:"icon"`
	ExcludeFromAnalysis bool   `json:"exclude_from_analysis"`
}
