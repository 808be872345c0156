package dto

type SettingsResponse struct {
	HerNickname   string `json:"her_nickname"`
	YourSignature string `json:"your_signature"`
	PasswordHint  string `json:"password_hint"`
}

// UpdateSettingsRequest carries only the keys the caller wants changed.
type UpdateSettingsRequest struct {
	HerNickname   *string `json:"her_nickname,omitempty"`
	YourSignature *string `json:"your_signature,omitempty"`
	SitePassword  *string `json:"site_password,omitempty"`
	PasswordHint  *string `json:"password_hint,omitempty"`
}

type EntranceRequest struct {
	Password string `json:"password" validate:"required"`
}

type EntranceResponse struct {
	Token string `json:"token"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}
