package auth

// RegisterInput represents the request body for user registration.
type RegisterInput struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	BaseCurrency string `json:"base_currency,omitempty"`
}

// LoginInput represents the request body for user authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the raw refresh token for rotation or logout.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CurrencyInput represents the request body for a base currency change.
type CurrencyInput struct {
	Currency string `json:"currency" validate:"required,len=3"`
}
