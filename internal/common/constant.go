package common

// Well-known keys in the local settings store. Structured values
// round-trip through JSON.
const (
	// SettingAuthToken holds the persisted bearer credential.
	SettingAuthToken = "auth_token"

	// SettingLegacyHistory holds the legacy local history metadata list
	// as a JSON array, newest first.
	SettingLegacyHistory = "image_history"

	// SettingSkipDeleteConfirm holds the user's "skip delete confirmation"
	// preference ("true"/"false").
	SettingSkipDeleteConfirm = "skip_delete_confirm"
)

// AuthHeaderName is the HTTP header that carries the bearer credential
// on outbound requests.
const AuthHeaderName = "Authorization"
