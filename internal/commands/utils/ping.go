package utils

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
)

// createPingCommand creates the /ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check if the bot is online",
		"utils",
		pingHandler,
	)
}

// pingHandler handles the /ping command
func pingHandler(ctx *discord.CommandContext) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()
	return ctx.Reply(fmt.Sprintf("🏓 Pong! Latency: %dms", latency))
}
