// Package api implements the relay endpoint: one POST route that
// forwards a named action to the Discord API and normalizes the answer.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guilddash/clients/discord"
)

const (
	defaultMemberLimit    = 100
	defaultTimeoutMinutes = 60
)

type Server struct {
	discord *discord.Client
}

func NewServer(client *discord.Client) *Server {
	return &Server{discord: client}
}

// Handle dispatches one relay request. The relay holds no state
// between invocations and never retries the outbound call.
func (s *Server) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	if req.Token == "" {
		fail(c, http.StatusBadRequest, MsgTokenRequired)
		return
	}

	switch req.Action {
	case ActionValidateToken:
		s.validateToken(c, req)
	case ActionGetGuild:
		s.getGuild(c, req)
	case ActionGetChannels:
		s.getChannels(c, req)
	case ActionGetMembers:
		s.getMembers(c, req)
	case ActionKickMember:
		s.kickMember(c, req)
	case ActionBanMember:
		s.banMember(c, req)
	case ActionTimeoutMember:
		s.timeoutMember(c, req)
	default:
		fail(c, http.StatusBadRequest, MsgInvalidAction)
	}
}

func (s *Server) validateToken(c *gin.Context, req Request) {
	user, err := s.discord.CurrentUser(c.Request.Context(), req.Token)
	if err != nil {
		var apiErr *discord.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			fail(c, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		passthrough(c, err)
		return
	}
	// The credential must belong to a service identity, not a user.
	if !user.Bot {
		fail(c, http.StatusBadRequest, MsgNotBotToken)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) getGuild(c *gin.Context, req Request) {
	if req.GuildID == "" {
		fail(c, http.StatusBadRequest, MsgGuildIDRequired)
		return
	}
	guild, err := s.discord.Guild(c.Request.Context(), req.Token, req.GuildID)
	if err != nil {
		var apiErr *discord.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status == http.StatusForbidden || apiErr.Code == discord.CodeMissingAccess {
				fail(c, http.StatusForbidden, MsgBotNotInGuild)
				return
			}
			if apiErr.Status == http.StatusNotFound {
				fail(c, http.StatusNotFound, MsgGuildNotFound)
				return
			}
		}
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, guild)
}

func (s *Server) getChannels(c *gin.Context, req Request) {
	if req.GuildID == "" {
		fail(c, http.StatusBadRequest, MsgGuildIDRequired)
		return
	}
	channels, err := s.discord.GuildChannels(c.Request.Context(), req.Token, req.GuildID)
	if err != nil {
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (s *Server) getMembers(c *gin.Context, req Request) {
	if req.GuildID == "" {
		fail(c, http.StatusBadRequest, MsgGuildIDRequired)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultMemberLimit
	}
	members, err := s.discord.GuildMembers(c.Request.Context(), req.Token, req.GuildID, limit)
	if err != nil {
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) kickMember(c *gin.Context, req Request) {
	if req.GuildID == "" || req.UserID == "" {
		fail(c, http.StatusBadRequest, MsgMemberIDRequired)
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = MsgDefaultKickReason
	}
	err := s.discord.KickMember(c.Request.Context(), req.Token, req.GuildID, req.UserID, reason)
	if err != nil {
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) banMember(c *gin.Context, req Request) {
	if req.GuildID == "" || req.UserID == "" {
		fail(c, http.StatusBadRequest, MsgMemberIDRequired)
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = MsgDefaultBanReason
	}
	err := s.discord.BanMember(c.Request.Context(), req.Token, req.GuildID, req.UserID, reason)
	if err != nil {
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) timeoutMember(c *gin.Context, req Request) {
	if req.GuildID == "" || req.UserID == "" {
		fail(c, http.StatusBadRequest, MsgMemberIDRequired)
		return
	}
	minutes := req.Duration
	if minutes <= 0 {
		minutes = defaultTimeoutMinutes
	}
	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	err := s.discord.TimeoutMember(c.Request.Context(), req.Token, req.GuildID, req.UserID, until)
	if err != nil {
		passthrough(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: true, Message: message})
}

// passthrough reports an unclassified failure: platform errors keep
// their status and message, anything else becomes a generic 500 with
// the internal message attached for diagnostics.
func passthrough(c *gin.Context, err error) {
	var apiErr *discord.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{
			Error:   true,
			Message: apiErr.Message,
			Status:  apiErr.Status,
			Code:    apiErr.Code,
		})
		return
	}
	slog.With("error", err.Error()).Error("relay request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: true, Message: err.Error()})
}
