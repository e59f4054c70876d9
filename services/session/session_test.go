package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guilddash/clients/relay"
)

const (
	testToken   = "MTAxMjM0NTY3ODkwMTIzNDU2Nzg.XXXXXX.yyyyyyyyyyyyyyyyyyyyyyyyyyy"
	testGuildID = "123456789012345678"
)

// fakeRelay mimics the relay endpoint: one POST route dispatching on
// the action field. Handlers default to a healthy guild; tests override
// per action.
type fakeRelay struct {
	calls    int
	byAction map[string]int
	override map[string]http.HandlerFunc
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{
		byAction: map[string]int{},
		override: map[string]http.HandlerFunc{},
	}
}

func (f *fakeRelay) start(t *testing.T) *relay.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))
		var body struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.byAction[body.Action]++
		if h, ok := f.override[body.Action]; ok {
			h(w, r)
			return
		}
		f.respond(w, body.Action)
	}))
	t.Cleanup(srv.Close)
	return relay.New(srv.URL, 5*time.Second)
}

func (f *fakeRelay) respond(w http.ResponseWriter, action string) {
	switch action {
	case "validate-token":
		_, _ = w.Write([]byte(`{"id":"10","username":"modbot","avatar":"abc","bot":true}`))
	case "get-guild":
		_, _ = w.Write([]byte(`{
			"id":"` + testGuildID + `","name":"My Guild","icon":"ic","roles":[
				{"id":"1","name":"@everyone","color":0,"position":0,"permissions":"0"},
				{"id":"2","name":"Admin","color":255,"position":5,"permissions":"8"},
				{"id":"3","name":"Mod","color":0,"position":3,"permissions":"268435456"}
			]}`))
	case "get-channels":
		_, _ = w.Write([]byte(`[
			{"id":"c1","name":"general","type":0,"position":0},
			{"id":"c2","name":"Support","type":4,"position":4},
			{"id":"c3","name":"Info","type":4,"position":1}
		]`))
	case "get-members":
		_, _ = w.Write([]byte(`[
			{"user":{"id":"u1","username":"alice"},"roles":["2"],"joined_at":"2024-01-01T00:00:00Z"},
			{"user":{"id":"u2","username":"helper","bot":true},"roles":[]},
			{"user":{"id":"u3","username":"bob"},"nick":"B","roles":["3"],"joined_at":"2024-02-01T00:00:00Z"}
		]`))
	case "kick-member", "ban-member", "timeout-member":
		_, _ = w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"message":"Invalid action"}`))
	}
}

func failWith(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":true,"message":"` + message + `"}`))
	}
}

func TestLoginRejectsMalformedGuildIDWithoutNetwork(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)

	for _, guildID := range []string{"", "abc", "1234", "12345678901234567890"} {
		_, err := svc.Login(context.Background(), testToken, guildID)
		assert.ErrorIs(t, err, ErrInvalidGuildID, "guildID %q", guildID)
	}
	assert.Zero(t, fake.calls)
}

func TestLoginRejectsShortTokenWithoutNetwork(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)

	_, err := svc.Login(context.Background(), "short", testGuildID)
	assert.ErrorIs(t, err, ErrTokenTooShort)
	assert.Zero(t, fake.calls)
}

func TestLoginHappyPath(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)

	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.Equal(t, testGuildID, sess.GuildID)
	assert.Equal(t, "modbot", sess.BotName)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/10/abc.png", sess.BotAvatarURL)
	assert.Equal(t, "My Guild", sess.GuildName)

	// @everyone dropped, highest position first, colors unpacked.
	require.Len(t, sess.Roles, 2)
	assert.Equal(t, "Admin", sess.Roles[0].Name)
	assert.Equal(t, "#0000ff", sess.Roles[0].Color)
	assert.Equal(t, "Mod", sess.Roles[1].Name)
	assert.Equal(t, "#99aab5", sess.Roles[1].Color)

	// Category channels only, ascending position.
	require.Len(t, sess.Categories, 2)
	assert.Equal(t, "Info", sess.Categories[0].Name)
	assert.Equal(t, "Support", sess.Categories[1].Name)

	// Bot member dropped; admin derived through the held role.
	require.Len(t, sess.Members, 2)
	assert.Equal(t, "alice", sess.Members[0].Username)
	assert.True(t, sess.Members[0].IsAdmin)
	assert.False(t, sess.Members[1].IsAdmin)
	assert.False(t, sess.MembersUnavailable)

	// Strict ordering: one call per step.
	assert.Equal(t, 1, fake.byAction["validate-token"])
	assert.Equal(t, 1, fake.byAction["get-guild"])
	assert.Equal(t, 1, fake.byAction["get-channels"])
	assert.Equal(t, 1, fake.byAction["get-members"])
}

func TestLoginAbortsWhenTokenInvalid(t *testing.T) {
	fake := newFakeRelay()
	fake.override["validate-token"] = failWith(http.StatusUnauthorized, "توكن البوت غير صالح أو منتهي الصلاحية")
	svc := NewService(fake.start(t), 100)

	_, err := svc.Login(context.Background(), testToken, testGuildID)
	require.Error(t, err)
	assert.Equal(t, "توكن البوت غير صالح أو منتهي الصلاحية", err.Error())
	assert.Zero(t, fake.byAction["get-guild"])
}

func TestLoginAbortsWhenBotNotInGuild(t *testing.T) {
	fake := newFakeRelay()
	fake.override["get-guild"] = failWith(http.StatusForbidden, "البوت غير موجود في هذا السيرفر")
	svc := NewService(fake.start(t), 100)

	_, err := svc.Login(context.Background(), testToken, testGuildID)
	require.Error(t, err)
	assert.Equal(t, "البوت غير موجود في هذا السيرفر", err.Error())
	assert.Zero(t, fake.byAction["get-channels"])
	assert.Zero(t, fake.byAction["get-members"])
}

func TestLoginDegradesWhenChannelsFail(t *testing.T) {
	fake := newFakeRelay()
	fake.override["get-channels"] = failWith(http.StatusInternalServerError, "boom")
	svc := NewService(fake.start(t), 100)

	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Empty(t, sess.Categories)
	assert.NotEmpty(t, sess.Members)
}

func TestLoginDegradesWhenMembersFail(t *testing.T) {
	fake := newFakeRelay()
	fake.override["get-members"] = failWith(http.StatusForbidden, "Missing Access")
	svc := NewService(fake.start(t), 100)

	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Empty(t, sess.Members)
	assert.True(t, sess.MembersUnavailable, "UI needs the Server Members Intent banner")
}

func TestKickRemovesExactlyTargetedMember(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	require.Len(t, sess.Members, 2)

	require.NoError(t, svc.Kick(context.Background(), sess, "u1", ""))

	require.Len(t, sess.Members, 1)
	assert.Equal(t, "u3", sess.Members[0].ID)
}

func TestKickFailureLeavesMembersUnchanged(t *testing.T) {
	fake := newFakeRelay()
	fake.override["kick-member"] = failWith(http.StatusForbidden, "Missing Permissions")
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)

	err = svc.Kick(context.Background(), sess, "u1", "")
	require.Error(t, err)
	assert.Len(t, sess.Members, 2)
}

func TestBanRemovesMember(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)

	require.NoError(t, svc.Ban(context.Background(), sess, "u3", "spam"))

	require.Len(t, sess.Members, 1)
	assert.Equal(t, "u1", sess.Members[0].ID)
}

func TestTimeoutLeavesMemberListUnchanged(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)

	before := time.Now()
	until, err := svc.Timeout(context.Background(), sess, "u1", 90)
	require.NoError(t, err)

	assert.Len(t, sess.Members, 2)
	assert.False(t, until.Before(before.Add(90*time.Minute)))
	assert.False(t, until.After(time.Now().Add(90*time.Minute)))
}

func TestTimeoutDefaultsToSixtyMinutes(t *testing.T) {
	fake := newFakeRelay()
	var forwarded float64
	fake.override["timeout-member"] = func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		forwarded, _ = body["duration"].(float64)
		_, _ = w.Write([]byte(`{"success":true}`))
	}
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)

	_, err = svc.Timeout(context.Background(), sess, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, float64(60), forwarded)
}

func TestModerationRequiresAuthenticatedSession(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)

	assert.ErrorIs(t, svc.Kick(context.Background(), nil, "u1", ""), ErrNotAuthenticated)
	assert.ErrorIs(t, svc.Ban(context.Background(), &Session{}, "u1", ""), ErrNotAuthenticated)
	_, err := svc.Timeout(context.Background(), &Session{}, "u1", 10)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, fake.calls)
}

func TestLogoutIsIdempotent(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)
	sess, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	callsAfterLogin := fake.calls

	svc.Logout(sess)
	svc.Logout(sess)

	assert.Equal(t, Session{}, *sess)
	assert.False(t, sess.Authenticated)
	assert.Empty(t, sess.Token)
	assert.Equal(t, callsAfterLogin, fake.calls, "logout makes no network call")

	svc.Logout(nil)
}

func TestSessionHoldsNoStateBetweenLogins(t *testing.T) {
	fake := newFakeRelay()
	svc := NewService(fake.start(t), 100)

	first, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	svc.Logout(first)

	second, err := svc.Login(context.Background(), testToken, testGuildID)
	require.NoError(t, err)
	assert.True(t, second.Authenticated)
	assert.Empty(t, first.Token)
}
