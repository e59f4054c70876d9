package session

// Role is the display form of a guild role: color unpacked to hex,
// ordered highest position first.
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

// Category is a grouping channel (a category-type channel).
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Member is the dashboard's view of a guild member. Status is always
// "offline": presence needs an intent this flow never requests.
type Member struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Discriminator string   `json:"discriminator"`
	Avatar        string   `json:"avatar"`
	Nickname      string   `json:"nickname"`
	Roles         []string `json:"roles"`
	JoinedAt      string   `json:"joinedAt"`
	IsAdmin       bool     `json:"isAdmin"`
	Status        string   `json:"status"`
}

// Session owns every piece of state an authenticated dashboard session
// has. It lives in memory only: logout zeroes it, nothing survives a
// process restart, and the token is never written anywhere durable.
type Session struct {
	Authenticated bool

	Token   string
	GuildID string

	BotName      string
	BotAvatarURL string
	GuildName    string
	GuildIconURL string

	Roles      []Role
	Categories []Category
	Members    []Member

	// MembersUnavailable marks a login whose member listing failed
	// (typically a bot without the Server Members Intent). The UI shows
	// an explanatory banner instead of an empty error state.
	MembersUnavailable bool
}
