package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// newGuildWindow separates real joins from the GuildCreate burst sent on connect
const newGuildWindow = 10 * time.Second

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		onGuildCreate(s, g, time.Now())
	})
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// onGuildCreate thanks a server that just added the bot.
// It reports whether a greeting was sent.
func onGuildCreate(s discord.Session, g *discordgo.GuildCreate, now time.Time) bool {
	if g.Guild == nil || g.JoinedAt.Before(now.Add(-newGuildWindow)) {
		return false
	}

	logger.Info(fmt.Sprintf("➕ Bot added to server: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Members: %d | Channels: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return false
	}

	welcomeEmbed := &discordgo.MessageEmbed{
		Title:       "Thanks for adding me! 🎉",
		Description: "Hi, I'm **FloppaBot**. Pick my channels with `/set-channel` to get started.",
		Color:       discord.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👋 Welcomes", Value: "`/set-channel role:welcome` and `/set-message`", Inline: true},
			{Name: "🎥 TikTok", Value: "`/set-tiktok` and `/set-channel role:notify`", Inline: true},
			{Name: "🔧 Moderation", Value: "`/warn`, `/kick`, `/ban`, `/report`", Inline: true},
		},
		Timestamp: now.Format(time.RFC3339),
	}

	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed); err != nil {
		logger.Error(fmt.Sprintf("Failed to send thanks message: %v", err), "Guild")
		return false
	}
	return true
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	logger.Info(fmt.Sprintf("➖ Bot removed from server ID: %s", g.ID), "Guild")
}
