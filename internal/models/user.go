package models

// Profile is the subset of the provider's user document carried in session tokens.
type Profile struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	Subject   string `json:"sub,omitempty"`
}
