package setup

import (
	"context"
	"testing"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/database"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manageGuild = discordgo.PermissionManageGuild

type fixture struct {
	client  *discord.ExtendedClient
	store   *database.MemoryStore
	session *discordtest.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := discord.NewClient(&config.Config{BotToken: "test-token"})
	require.NoError(t, err)
	store := database.NewMemoryStore()
	RegisterSetupCommands(c, store)
	return &fixture{client: c, store: store, session: discordtest.NewSession()}
}

func (f *fixture) run(inv *discordtest.Invocation) string {
	f.client.Dispatch(context.Background(), f.session, inv.Build())
	return discordtest.ResponseContent(f.session.LastResponse())
}

func TestSetChannel(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("set-channel").WithPermissions(manageGuild).
		String("role", "welcome").Channel("channel", "c-welcome"))
	assert.Equal(t, "✅ The **welcome** channel is now <#c-welcome>.", reply)

	id, ok, err := f.store.GetChannel(context.Background(), "guild-1", models.ChannelWelcome)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c-welcome", id)
}

func TestSetChannelRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("set-channel").WithPermissions(manageGuild).
		String("role", "memes").Channel("channel", "c1"))
	assert.Contains(t, reply, "unknown channel role")
	assert.True(t, discordtest.IsEphemeral(f.session.LastResponse()))
	assert.Equal(t, 0, f.store.Writes())
}

func TestSetupCommandsRequirePermission(t *testing.T) {
	tests := []*discordtest.Invocation{
		discordtest.NewInvocation("set-channel").String("role", "welcome").Channel("channel", "c1"),
		discordtest.NewInvocation("set-message").String("role", "welcome").String("message", "hi {member}"),
		discordtest.NewInvocation("set-tiktok").String("username", "floppa"),
		discordtest.NewInvocation("admin-speak").Channel("channel", "c1").String("message", "hello"),
	}

	for _, inv := range tests {
		t.Run(inv.Name, func(t *testing.T) {
			f := newFixture(t)
			reply := f.run(inv.WithPermissions(discordgo.PermissionSendMessages))
			assert.Equal(t, "❌ You don't have permission to use this command.", reply)
			assert.Equal(t, 0, f.store.Writes())
			assert.Empty(t, f.session.AllSent())
		})
	}
}

func TestSetMessagePreview(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("set-message").WithPermissions(manageGuild).
		String("role", "welcome").String("message", "Welcome {member}!"))
	assert.Equal(t, "✅ The **welcome** message was updated! Preview:\nWelcome <@user-1>!", reply)

	tpl, ok, err := f.store.GetMessage(context.Background(), "guild-1", models.MessageWelcome)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Welcome {member}!", tpl)
}

func TestSetTikTok(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("set-tiktok").WithPermissions(manageGuild).String("username", " @floppa.cat "))
	assert.Contains(t, reply, "✅ Now following **@floppa.cat**.")
	assert.Contains(t, reply, "/set-channel")

	require.NoError(t, f.store.SetChannel(context.Background(), "guild-1", models.ChannelNotify, "c-notify"))
	reply = f.run(discordtest.NewInvocation("set-tiktok").WithPermissions(manageGuild).String("username", "floppa"))
	assert.Contains(t, reply, "<#c-notify>")

	name, ok, err := f.store.GetTikTokUsername(context.Background(), "guild-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "floppa", name)
}

func TestNormalizeTikTokUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"floppa", "floppa", false},
		{"@floppa_cat", "floppa_cat", false},
		{"  big.floppa ", "big.floppa", false},
		{"", "", true},
		{"@", "", true},
		{"has space", "", true},
		{"../../etc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeTikTokUsername(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetBirthday(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("set-birthday").String("date", "02-29"))
	assert.Equal(t, "🎂 Your birthday is set to **02-29**.", reply)

	day, ok, err := f.store.GetBirthday(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "02-29", day)

	reply = f.run(discordtest.NewInvocation("set-birthday").String("date", "13-01"))
	assert.Contains(t, reply, "MM-DD")
}

func TestAdminSpeak(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("admin-speak").WithPermissions(discordgo.PermissionManageChannels).
		Channel("channel", "c-general").String("message", "Meow"))
	assert.Equal(t, "✅ Sent to <#c-general>", reply)
	require.Len(t, f.session.SentTo("c-general"), 1)
	assert.Equal(t, "Meow", f.session.SentTo("c-general")[0].Content)
}

func TestAdminSpeakRejected(t *testing.T) {
	f := newFixture(t)
	f.session.FailChannels["c-locked"] = true

	reply := f.run(discordtest.NewInvocation("admin-speak").WithPermissions(discordgo.PermissionManageChannels).
		Channel("channel", "c-locked").String("message", "Meow"))
	assert.Contains(t, reply, "❌ Discord rejected the action")
}
