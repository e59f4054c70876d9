// Package relay is the dashboard-side client for the relay endpoint.
// It mirrors the relay's action table: one POST per call, the bearer
// token carried in the body alongside the action name.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"guilddash/clients/discord"
)

// Error is a failure answer from the relay, already localized.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	http  *resty.Client
	token string
}

// New builds a client for the relay endpoint URL.
func New(endpoint string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetBaseURL(endpoint)
	c.SetTimeout(timeout)
	c.SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// SetToken sets the credential attached to every subsequent call.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) ValidateToken(ctx context.Context) (*discord.User, error) {
	user := &discord.User{}
	if err := c.post(ctx, "validate-token", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Guild(ctx context.Context, guildID string) (*discord.Guild, error) {
	guild := &discord.Guild{}
	if err := c.post(ctx, "get-guild", fields{"guildId": guildID}, guild); err != nil {
		return nil, err
	}
	return guild, nil
}

func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]discord.Channel, error) {
	var channels []discord.Channel
	if err := c.post(ctx, "get-channels", fields{"guildId": guildID}, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *Client) GuildMembers(ctx context.Context, guildID string, limit int) ([]discord.Member, error) {
	var members []discord.Member
	f := fields{"guildId": guildID, "limit": limit}
	if err := c.post(ctx, "get-members", f, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return c.post(ctx, "kick-member", fields{"guildId": guildID, "userId": userID, "reason": reason}, nil)
}

func (c *Client) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return c.post(ctx, "ban-member", fields{"guildId": guildID, "userId": userID, "reason": reason}, nil)
}

func (c *Client) TimeoutMember(ctx context.Context, guildID, userID string, durationMinutes int) error {
	f := fields{"guildId": guildID, "userId": userID, "duration": durationMinutes}
	return c.post(ctx, "timeout-member", f, nil)
}

type fields map[string]any

func (c *Client) post(ctx context.Context, action string, extra fields, out any) error {
	body := fields{"action": action, "token": c.token}
	for k, v := range extra {
		body[k] = v
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("")
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}

	if resp.IsError() {
		relayErr := &Error{Status: resp.StatusCode()}
		var remote struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Body(), &remote); err == nil {
			relayErr.Message = remote.Message
		}
		if relayErr.Message == "" {
			relayErr.Message = http.StatusText(resp.StatusCode())
		}
		return relayErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode relay response: %w", err)
		}
	}
	return nil
}
