package discord

// User is the platform's user record. Bot is set for service identities.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Bot           bool   `json:"bot,omitempty"`
}

// Role carries the packed display color and a decimal permission bitmask.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions string `json:"permissions"`
}

// ChannelTypeCategory is the channel kind that groups other channels.
const ChannelTypeCategory = 4

type Channel struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     int     `json:"type"`
	ParentID *string `json:"parent_id"`
	Position int     `json:"position"`
}

type Guild struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Icon                     string `json:"icon"`
	OwnerID                  string `json:"owner_id"`
	Roles                    []Role `json:"roles"`
	ApproximateMemberCount   int    `json:"approximate_member_count,omitempty"`
	ApproximatePresenceCount int    `json:"approximate_presence_count,omitempty"`
}

// Member is a guild membership record. User may be absent on partial
// records delivered without identity data.
type Member struct {
	User                       *User    `json:"user"`
	Nick                       *string  `json:"nick"`
	Roles                      []string `json:"roles"`
	JoinedAt                   string   `json:"joined_at"`
	Permissions                string   `json:"permissions,omitempty"`
	CommunicationDisabledUntil *string  `json:"communication_disabled_until,omitempty"`
}
