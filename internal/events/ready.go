package events

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(onReady)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info(fmt.Sprintf("📊 Connected to %d servers", len(r.Guilds)), "Ready")

	if err := s.UpdateWatchStatus(0, "for new TikToks"); err != nil {
		logger.Error(fmt.Sprintf("Failed to set status: %v", err), "Ready")
		return
	}

	logger.Debug("Bot status set", "Ready")
}
