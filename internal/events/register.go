// Package events wires the gateway events the bot reacts to:
// ready, guild join/leave and member join/leave.
package events

import (
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, store MemberStore) {
	logger.System("📋 Registering bot events...", "Events")

	RegisterReadyEvent(client)
	RegisterGuildEvents(client)
	RegisterMemberEvents(client, NewMemberHandler(store))

	logger.Success("✅ All events registered", "Events")
}
