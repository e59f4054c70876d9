// Package session turns a bot token and guild id into an authenticated
// dashboard session and exposes the moderation operations scoped to it.
// All session state lives in the Session value handed back by Login;
// nothing is kept in package globals and nothing is persisted.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"guilddash/clients/relay"
)

// Localized precondition failures, reported before any network call.
var (
	ErrInvalidGuildID = errors.New("آيدي السيرفر غير صالح. يجب أن يكون رقماً من 17-19 خانة")
	ErrTokenTooShort  = errors.New("توكن البوت غير صالح. التوكن قصير جداً")
)

// ErrNotAuthenticated guards moderation calls on a dead session.
var ErrNotAuthenticated = errors.New("session is not authenticated")

var guildIDPattern = regexp.MustCompile(`^\d{17,19}$`)

// minTokenLength is a cheap sanity floor; real bot tokens are longer.
const minTokenLength = 50

const (
	defaultKickReason = "تم الطرد من لوحة التحكم"
	defaultBanReason  = "تم الحظر من لوحة التحكم"
)

const defaultTimeoutMinutes = 60

const cdnBase = "https://cdn.discordapp.com"

type Service interface {
	// Login runs the four-step sequence: validate token, fetch guild,
	// fetch channels (best-effort), fetch members (best-effort). The
	// first two steps abort the login on failure; the last two degrade
	// to empty lists.
	Login(ctx context.Context, token, guildID string) (*Session, error)

	// Kick removes the member from the guild and, on success, from the
	// session's member list.
	Kick(ctx context.Context, s *Session, memberID, reason string) error

	// Ban has the same contract as Kick; no message history is deleted.
	Ban(ctx context.Context, s *Session, memberID, reason string) error

	// Timeout suspends the member's communication for the given number
	// of minutes (default 60) and returns the suspension deadline. The
	// member stays in the list; the suspension is not reflected in the
	// in-memory model and only a full re-fetch would show it.
	Timeout(ctx context.Context, s *Session, memberID string, minutes int) (time.Time, error)

	// Logout discards the whole session synchronously. Idempotent; no
	// network call is made.
	Logout(s *Session)
}

type service struct {
	relay       *relay.Client
	memberLimit int
}

var _ Service = (*service)(nil)

func NewService(relayClient *relay.Client, memberLimit int) Service {
	return &service{
		relay:       relayClient,
		memberLimit: memberLimit,
	}
}

func (s *service) Login(ctx context.Context, token, guildID string) (*Session, error) {
	if !guildIDPattern.MatchString(guildID) {
		return nil, ErrInvalidGuildID
	}
	if len(token) < minTokenLength {
		return nil, ErrTokenTooShort
	}

	s.relay.SetToken(token)

	// Step 1: the token must authenticate a service identity.
	bot, err := s.relay.ValidateToken(ctx)
	if err != nil {
		return nil, err
	}

	// Step 2: the guild must exist and the bot must be a member of it.
	guild, err := s.relay.Guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	// Steps 3 and 4 are best-effort: a failure degrades the session
	// instead of aborting the login.
	channels, err := s.relay.GuildChannels(ctx, guildID)
	if err != nil {
		slog.With("error", err.Error()).Warn("failed to fetch channels")
		channels = nil
	}

	membersUnavailable := false
	members, err := s.relay.GuildMembers(ctx, guildID, s.memberLimit)
	if err != nil {
		// Usually a bot without the Server Members Intent.
		slog.With("error", err.Error()).Warn("failed to fetch members")
		members = nil
		membersUnavailable = true
	}

	sess := &Session{
		Authenticated:      true,
		Token:              token,
		GuildID:            guildID,
		BotName:            bot.Username,
		BotAvatarURL:       avatarURL(bot.ID, bot.Avatar),
		GuildName:          guild.Name,
		GuildIconURL:       iconURL(guild.ID, guild.Icon),
		Roles:              transformRoles(guild.Roles),
		Categories:         transformCategories(channels),
		Members:            transformMembers(members, guild.Roles),
		MembersUnavailable: membersUnavailable,
	}

	slog.Info("session authenticated",
		"guild", guild.Name,
		"roles", len(sess.Roles),
		"members", len(sess.Members),
	)
	return sess, nil
}

func (s *service) Kick(ctx context.Context, sess *Session, memberID, reason string) error {
	if sess == nil || !sess.Authenticated {
		return ErrNotAuthenticated
	}
	if reason == "" {
		reason = defaultKickReason
	}
	if err := s.relay.KickMember(ctx, sess.GuildID, memberID, reason); err != nil {
		return err
	}
	removeMember(sess, memberID)
	return nil
}

func (s *service) Ban(ctx context.Context, sess *Session, memberID, reason string) error {
	if sess == nil || !sess.Authenticated {
		return ErrNotAuthenticated
	}
	if reason == "" {
		reason = defaultBanReason
	}
	if err := s.relay.BanMember(ctx, sess.GuildID, memberID, reason); err != nil {
		return err
	}
	removeMember(sess, memberID)
	return nil
}

func (s *service) Timeout(ctx context.Context, sess *Session, memberID string, minutes int) (time.Time, error) {
	if sess == nil || !sess.Authenticated {
		return time.Time{}, ErrNotAuthenticated
	}
	if minutes <= 0 {
		minutes = defaultTimeoutMinutes
	}
	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := s.relay.TimeoutMember(ctx, sess.GuildID, memberID, minutes); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

func (s *service) Logout(sess *Session) {
	if sess == nil {
		return
	}
	*sess = Session{}
	s.relay.SetToken("")
}

func removeMember(sess *Session, memberID string) {
	kept := sess.Members[:0]
	for _, m := range sess.Members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}
	sess.Members = kept
}

func avatarURL(userID, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", cdnBase, userID, hash)
}

func iconURL(guildID, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s/icons/%s/%s.png", cdnBase, guildID, hash)
}
