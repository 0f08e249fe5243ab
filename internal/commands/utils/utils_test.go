package utils

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offlineDB struct{}

func (offlineDB) GetStatus() (string, bool) { return "🔴 | Offline", false }

func newClient(t *testing.T) *discord.ExtendedClient {
	t.Helper()
	c, err := discord.NewClient(&config.Config{BotToken: "test-token"})
	require.NoError(t, err)
	RegisterUtilsCommands(c, offlineDB{})
	return c
}

func TestPing(t *testing.T) {
	c := newClient(t)
	s := discordtest.NewSession()

	c.Dispatch(context.Background(), s, discordtest.NewInvocation("ping").Build())
	assert.Equal(t, "🏓 Pong! Latency: 42ms", discordtest.ResponseContent(s.LastResponse()))
}

func TestStatus(t *testing.T) {
	c := newClient(t)
	s := discordtest.NewSession()

	c.Dispatch(context.Background(), s, discordtest.NewInvocation("status").Build())
	resp := s.LastResponse()
	require.NotNil(t, resp)
	require.Len(t, resp.Data.Embeds, 1)

	var dbField string
	for _, f := range resp.Data.Embeds[0].Fields {
		if f.Name == "🗄 Database" {
			dbField = f.Value
		}
	}
	assert.Equal(t, "🔴 | Offline", dbField)
}

func TestHelpListsAllowedCommands(t *testing.T) {
	c := newClient(t)
	c.CommandHandler.RegisterCommand(discord.NewCommand("ban", "Ban a member", "mod", func(*discord.CommandContext) error { return nil }).
		WithUserPermissions(discordgo.PermissionBanMembers))
	s := discordtest.NewSession()

	c.Dispatch(context.Background(), s, discordtest.NewInvocation("help").Build())
	resp := s.LastResponse()
	require.NotNil(t, resp)
	assert.True(t, discordtest.IsEphemeral(resp))
	require.Len(t, resp.Data.Embeds, 1)
	fields := resp.Data.Embeds[0].Fields
	require.Len(t, fields, 1)
	assert.Equal(t, "🔧 Utility", fields[0].Name)
	assert.Contains(t, fields[0].Value, "`/help`")
	assert.Contains(t, fields[0].Value, "`/ping` - Check if the bot is online")
	assert.NotContains(t, fields[0].Value, "/ban")

	c.Dispatch(context.Background(), s, discordtest.NewInvocation("help").WithPermissions(discordgo.PermissionBanMembers).Build())
	fields = s.LastResponse().Data.Embeds[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "🛡️ Moderation", fields[1].Name)
	assert.Equal(t, "• `/ban` - Ban a member", fields[1].Value)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "1m 5s", formatDuration(65*time.Second))
	assert.Equal(t, "2d 3h", formatDuration(51*time.Hour))
}
