// Package utils provides the informational commands (/ping, /status, /help)
package utils

import (
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
)

// DatabaseStatus reports the document store state. *database.Database satisfies it.
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// RegisterUtilsCommands registers the utility commands.
// db may be nil when the bot runs on the in-memory store.
func RegisterUtilsCommands(client *discord.ExtendedClient, db DatabaseStatus) {
	client.CommandHandler.RegisterCommand(createPingCommand())
	client.CommandHandler.RegisterCommand(createStatusCommand(db))
	client.CommandHandler.RegisterCommand(createHelpCommand())
}
