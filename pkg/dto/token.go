package dto

// TokenPair is a freshly issued access/refresh pair. RefreshToken is the raw
// token; it is returned to the caller once and persisted only as a hash.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
