package mod

import (
	"context"
	"strings"
	"testing"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/database"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client  *discord.ExtendedClient
	store   *database.MemoryStore
	session *discordtest.Session
	events  *mqtt.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := discord.NewClient(&config.Config{BotToken: "test-token"})
	require.NoError(t, err)
	f := &fixture{
		client:  c,
		store:   database.NewMemoryStore(),
		session: discordtest.NewSession(),
		events:  mqtt.NewRecorder(),
	}
	RegisterModCommands(c, f.store, f.events)
	return f
}

func (f *fixture) run(inv *discordtest.Invocation) string {
	f.client.Dispatch(context.Background(), f.session, inv.Build())
	return discordtest.ResponseContent(f.session.LastResponse())
}

func TestPermissionGateBlocksModeration(t *testing.T) {
	tests := []*discordtest.Invocation{
		discordtest.NewInvocation("warn").User("user", "u2", "mallory").String("reason", "spam"),
		discordtest.NewInvocation("kick").User("user", "u2", "mallory"),
		discordtest.NewInvocation("ban").User("user", "u2", "mallory"),
	}

	for _, inv := range tests {
		t.Run(inv.Name, func(t *testing.T) {
			f := newFixture(t)
			reply := f.run(inv.WithPermissions(discordgo.PermissionSendMessages))

			assert.Equal(t, "❌ You don't have permission to use this command.", reply)
			assert.True(t, discordtest.IsEphemeral(f.session.LastResponse()))
			assert.Equal(t, 0, f.store.Writes())
			kicks, bans := f.session.Removals()
			assert.Empty(t, kicks)
			assert.Empty(t, bans)
			assert.Empty(t, f.events.Messages("floppabot/#"))
		})
	}
}

func TestWarnDefaultTemplate(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("warn").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "u2", "mallory").String("reason", "spam"))

	assert.Equal(t, "⚠️ <@u2> has been warned. Reason: spam\n-# Warning #1", reply)
	rec, ok, err := f.store.GetWarnings(context.Background(), "u2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, rec.Count)
	assert.Equal(t, "invoker", rec.Reasons[0].Moderator)
	assert.Len(t, f.events.Messages(mqtt.ModerationTopic("warn")), 1)
}

func TestWarnStoresModeratorDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		nick       string
		globalName string
		want       string
	}{
		{"nickname first", "Mod Nick", "Global Mod", "Mod Nick"},
		{"global name next", "", "Global Mod", "Global Mod"},
		{"username last", "", "", "invoker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.run(discordtest.NewInvocation("warn").WithPermissions(discordgo.PermissionKickMembers).
				WithNames(tt.nick, tt.globalName).User("user", "u2", "mallory").String("reason", "spam"))

			rec, ok, err := f.store.GetWarnings(context.Background(), "u2")
			require.NoError(t, err)
			require.True(t, ok)
			require.Len(t, rec.Reasons, 1)
			assert.Equal(t, tt.want, rec.Reasons[0].Moderator)
		})
	}
}

func TestWarnCustomTemplate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetMessage(context.Background(), "guild-1", models.MessageWarn, "Careful {member}! ({reason})"))

	f.run(discordtest.NewInvocation("warn").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "u2", "mallory").String("reason", "spam"))
	reply := f.run(discordtest.NewInvocation("warn").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "u2", "mallory").String("reason", "more spam"))

	assert.Equal(t, "Careful <@u2>! (more spam)\n-# Warning #2", reply)
}

func TestKick(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("kick").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "u2", "mallory").String("reason", "rude"))

	assert.Equal(t, "👢 **mallory** has been kicked.\n**Reason:** rude", reply)
	kicks, _ := f.session.Removals()
	require.Len(t, kicks, 1)
	assert.Equal(t, discordtest.Removal{GuildID: "guild-1", UserID: "u2", Reason: "rude"}, kicks[0])
}

func TestKickSelfRejected(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("kick").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "user-1", "invoker"))
	assert.Equal(t, "❌ You can't kick yourself.", reply)
	kicks, _ := f.session.Removals()
	assert.Empty(t, kicks)
}

func TestKickRejectedByDiscord(t *testing.T) {
	f := newFixture(t)
	f.session.FailKick = true

	reply := f.run(discordtest.NewInvocation("kick").WithPermissions(discordgo.PermissionKickMembers).
		User("user", "u2", "mallory"))
	assert.Contains(t, reply, "❌ Discord rejected the action")
	assert.Empty(t, f.events.Messages("floppabot/#"))
}

func TestBan(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("ban").WithPermissions(discordgo.PermissionBanMembers).
		User("user", "u2", "mallory").Int("days", 3))

	assert.Equal(t, "🔨 **mallory** has been banned.\n**Reason:** No reason given", reply)
	_, bans := f.session.Removals()
	require.Len(t, bans, 1)
	assert.Equal(t, 3, bans[0].Days)
	assert.Len(t, f.events.Messages(mqtt.ModerationTopic("ban")), 1)
}

func TestBanDaysOutOfRange(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("ban").WithPermissions(discordgo.PermissionBanMembers).
		User("user", "u2", "mallory").Int("days", 9))
	assert.Equal(t, "❌ Days must be between 0 and 7.", reply)
	_, bans := f.session.Removals()
	assert.Empty(t, bans)
}

func TestWarningsSelfAndOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.AddWarning(ctx, "user-1", "late", "mod-1")
	require.NoError(t, err)

	f.run(discordtest.NewInvocation("warnings"))
	resp := f.session.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	assert.Contains(t, resp.Data.Embeds[0].Description, "late")
	assert.NotContains(t, resp.Data.Embeds[0].Description, "mod-1")

	reply := f.run(discordtest.NewInvocation("warnings").User("user", "u2", "mallory"))
	assert.Equal(t, "❌ You don't have permission to use this command.", reply)

	f.run(discordtest.NewInvocation("warnings").WithPermissions(discordgo.PermissionKickMembers).User("user", "u2", "mallory"))
	resp = f.session.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	assert.Contains(t, resp.Data.Embeds[0].Description, "No warnings")
}

func TestWarningsEmbedShowsModeratorsToStaff(t *testing.T) {
	rec := &models.WarningRecord{UserID: "u2", Count: 2, Reasons: []models.WarnEntry{
		{Reason: "first", Moderator: "Alice"},
		{Reason: "second", Moderator: "Bob"},
	}}

	embed := warningsEmbed("mallory", rec, true)
	assert.Contains(t, embed.Description, "**#2** second (by Bob)")
	assert.Less(t, strings.Index(embed.Description, "second"), strings.Index(embed.Description, "first"))
}

func TestReportForwarded(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetChannel(context.Background(), "guild-1", models.ChannelReport, "c-reports"))

	reply := f.run(discordtest.NewInvocation("report").User("user", "u2", "mallory").String("reason", "scam links"))
	assert.Contains(t, reply, "sent to the moderators")

	reports := f.store.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "user-1", reports[0].Reporter)

	sent := f.session.SentTo("c-reports")
	require.Len(t, sent, 1)
	assert.Equal(t, "ID: "+reports[0].ID, sent[0].Embed.Footer.Text)
}

func TestReportWithoutChannelStillRecorded(t *testing.T) {
	f := newFixture(t)

	reply := f.run(discordtest.NewInvocation("report").User("user", "u2", "mallory").String("reason", "scam links"))

	assert.Contains(t, reply, "⚙️ Your report was recorded")
	assert.Contains(t, reply, "no report channel is set")
	assert.True(t, discordtest.IsEphemeral(f.session.LastResponse()))
	assert.Len(t, f.store.Reports(), 1)
	assert.Empty(t, f.session.AllSent())
}
