// Package discord is a thin client for the Discord REST API. Every call
// authenticates with the bot token it is handed; the client itself holds
// no credential state.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// CodeMissingAccess is the platform error code returned when the bot
// has no access to the requested guild.
const CodeMissingAccess = 50001

// APIError is a non-2xx answer from the platform.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: %d %s", e.Status, e.Message)
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(timeout)
	c.SetHeader("Accept", "application/json")
	c.SetHeader("Content-Type", "application/json")
	c.SetHeader("User-Agent", "guilddash-backend")
	return &Client{http: c}
}

// CurrentUser looks up the identity the token authenticates.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/users/@me", token, "", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Guild fetches a guild with approximate member counts and its role list.
func (c *Client) Guild(ctx context.Context, token, guildID string) (*Guild, error) {
	guild := &Guild{}
	path := fmt.Sprintf("/guilds/%s?with_counts=true", guildID)
	if err := c.do(ctx, http.MethodGet, path, token, "", nil, guild); err != nil {
		return nil, err
	}
	return guild, nil
}

func (c *Client) GuildChannels(ctx context.Context, token, guildID string) ([]Channel, error) {
	var channels []Channel
	path := fmt.Sprintf("/guilds/%s/channels", guildID)
	if err := c.do(ctx, http.MethodGet, path, token, "", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// GuildMembers lists up to limit members. Requires the Server Members
// Intent on the bot; without it the platform answers 403.
func (c *Client) GuildMembers(ctx context.Context, token, guildID string, limit int) ([]Member, error) {
	var members []Member
	path := fmt.Sprintf("/guilds/%s/members?limit=%d", guildID, limit)
	if err := c.do(ctx, http.MethodGet, path, token, "", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// KickMember removes a member from the guild. The reason, when set, is
// attached as the audit-log annotation.
func (c *Client) KickMember(ctx context.Context, token, guildID, userID, reason string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	return c.do(ctx, http.MethodDelete, path, token, reason, nil, nil)
}

// BanMember creates a ban without deleting any message history.
func (c *Client) BanMember(ctx context.Context, token, guildID, userID, reason string) error {
	path := fmt.Sprintf("/guilds/%s/bans/%s", guildID, userID)
	body := map[string]int{"delete_message_days": 0}
	return c.do(ctx, http.MethodPut, path, token, reason, body, nil)
}

// TimeoutMember suspends a member's communication until the given time.
func (c *Client) TimeoutMember(ctx context.Context, token, guildID, userID string, until time.Time) error {
	path := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	body := map[string]string{
		"communication_disabled_until": FormatTimestamp(until),
	}
	return c.do(ctx, http.MethodPatch, path, token, "", body, nil)
}

// FormatTimestamp renders a time the way the platform expects
// suspension timestamps: UTC ISO-8601 with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (c *Client) do(ctx context.Context, method, path, token, reason string, body, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bot "+token)
	if reason != "" {
		req.SetHeader("X-Audit-Log-Reason", url.PathEscape(reason))
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}

	// No-content answers are bare success markers.
	if resp.StatusCode() == http.StatusNoContent {
		return nil
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		var remote struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		}
		if err := json.Unmarshal(resp.Body(), &remote); err == nil {
			apiErr.Message = remote.Message
			apiErr.Code = remote.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("HTTP Error %d", resp.StatusCode())
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode discord response: %w", err)
		}
	}
	return nil
}
