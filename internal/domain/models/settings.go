package models

// Settings is the flat key->value personalization map. Every page that needs
// it fetches the latest stored state; there is deliberately no cache layer.
type Settings map[string]string

// Recognized settings keys. Unknown keys round-trip untouched.
const (
	SettingHerNickname   = "her_nickname"
	SettingYourSignature = "your_signature"
	SettingSitePassword  = "site_password"
	SettingPasswordHint  = "password_hint"
)

func (s Settings) Nickname() string     { return s[SettingHerNickname] }
func (s Settings) Signature() string    { return s[SettingYourSignature] }
func (s Settings) SitePassword() string { return s[SettingSitePassword] }
func (s Settings) PasswordHint() string { return s[SettingPasswordHint] }
