// Package tickets maintains the ticket-support settings edited from the
// dashboard: named categories, welcome/close messages, and the log and
// transcript channel selection. State is deliberately ephemeral — there
// is no backend for it and everything is lost when the session ends.
package tickets

import (
	"errors"
	"strconv"
)

var ErrNotFound = errors.New("ticket category not found")

// Category is a support topic a ticket can be opened under.
type Category struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ChannelID      string   `json:"categoryId"`
	MentionRoleIDs []string `json:"mentionRoles"`
	Description    string   `json:"description"`
	Emoji          string   `json:"emoji"`
}

// Settings holds the non-category ticket configuration.
type Settings struct {
	WelcomeMessage      string `json:"welcomeMessage"`
	CloseMessage        string `json:"closeMessage"`
	LogChannelID        string `json:"logChannel"`
	TranscriptChannelID string `json:"transcriptChannel"`
}

// Service owns the ticket settings for one session. It is not safe for
// concurrent use; a session has a single thread of control.
type Service struct {
	settings   Settings
	categories []Category
	nextID     int
}

// NewService seeds the editor with the product defaults.
func NewService() *Service {
	return &Service{
		settings: Settings{
			WelcomeMessage: "مرحباً {user}! شكراً لتواصلك معنا. سيقوم فريق الدعم بالرد عليك قريباً.",
			CloseMessage:   "شكراً لتواصلك معنا! تم إغلاق التيكت.",
		},
		categories: []Category{
			{
				ID:             "1",
				Name:           "دعم فني",
				ChannelID:      "1",
				MentionRoleIDs: []string{"1", "2"},
				Description:    "للمساعدة التقنية والمشاكل الفنية",
				Emoji:          "🔧",
			},
			{
				ID:             "2",
				Name:           "استفسارات عامة",
				ChannelID:      "2",
				MentionRoleIDs: []string{"3"},
				Description:    "للأسئلة والاستفسارات العامة",
				Emoji:          "❓",
			},
		},
		nextID: 3,
	}
}

func (s *Service) Settings() Settings {
	return s.settings
}

// Categories returns a copy; callers cannot mutate the editor's state
// through it.
func (s *Service) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Create adds a category under a fresh locally-unique id and returns
// the stored value.
func (s *Service) Create(c Category) Category {
	c.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.categories = append(s.categories, c)
	return c
}

// Update replaces the category with the same id.
func (s *Service) Update(c Category) error {
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = c
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the category with the given id. Deleting an unknown id
// is a no-op, matching the editor's filter semantics.
func (s *Service) Delete(id string) {
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
}

func (s *Service) SetMessages(welcome, closing string) {
	s.settings.WelcomeMessage = welcome
	s.settings.CloseMessage = closing
}

func (s *Service) SetLogChannel(channelID string) {
	s.settings.LogChannelID = channelID
}

func (s *Service) SetTranscriptChannel(channelID string) {
	s.settings.TranscriptChannelID = channelID
}
