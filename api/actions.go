package api

// Action names the operation a relay request forwards. The set is
// closed: Server.Handle switches over every value and rejects anything
// else, so adding an action is a compile-visible change here and there.
type Action string

const (
	ActionValidateToken Action = "validate-token"
	ActionGetGuild      Action = "get-guild"
	ActionGetChannels   Action = "get-channels"
	ActionGetMembers    Action = "get-members"
	ActionKickMember    Action = "kick-member"
	ActionBanMember     Action = "ban-member"
	ActionTimeoutMember Action = "timeout-member"
)

// Request is the relay's single request shape. Token is required for
// every action; the rest applies per action.
type Request struct {
	Action  Action `json:"action"`
	Token   string `json:"token"`
	GuildID string `json:"guildId"`
	UserID  string `json:"userId"`
	Limit   int    `json:"limit"`
	// Duration is a timeout length in minutes.
	Duration int    `json:"duration"`
	Reason   string `json:"reason"`
}

// ErrorResponse is the normalized failure body. Status and Code carry
// the remote values when the failure came from the platform.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is the bare marker for moderation actions.
type SuccessResponse struct {
	Success bool `json:"success"`
}
