package store

// Keys written by the session controller.
const (
	KeyYears     = "selectedYears"
	KeyMonths    = "selectedMonths"
	KeyIslands   = "selectedIsland"
	KeyDataSet   = "data_set"
	KeySessionID = "id"
	KeyArtifact  = "user_map"
)

// KeyToken holds the login token.
const KeyToken = "jwtToken"

// SelectionKeys are the keys that describe the user's filter selection.
var SelectionKeys = []string{KeyYears, KeyMonths, KeyIslands, KeyDataSet}
