package lastfm

// Token represents an authentication token from auth.gettoken.
type Token struct {
	Token   string // The authentication token
	AuthURL string // The browser page where the user approves the token
}

// Session represents an authenticated session from auth.getSession.
type Session struct {
	Key        string // Session key for authenticated requests
	Name       string // Last.fm username
	Subscriber bool   // Whether user is a subscriber
}

// UserImage is one avatar rendition from user.getInfo.
type UserImage struct {
	Size string `json:"size"`
	URL  string `json:"#text"`
}

// UserInfo represents the response from user.getInfo.
type UserInfo struct {
	URL    string      // Profile page URL
	Images []UserImage // Avatar renditions, smallest first
}

// Track represents the track metadata sent on now playing, love and
// scrobble calls.
type Track struct {
	Artist    string // Required: artist name
	Title     string // Required: track name
	Album     string // Optional: album name
	Duration  int    // Optional: track length in whole seconds
	Timestamp int64  // Scrobble only: epoch seconds when playback started
	Loved     bool   // Selects track.love vs track.unlove
}
