// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, setup, mod).
package commands

import (
	"github.com/PancyStudios/FloppaBotGo/internal/commands/mod"
	"github.com/PancyStudios/FloppaBotGo/internal/commands/setup"
	"github.com/PancyStudios/FloppaBotGo/internal/commands/utils"
	"github.com/PancyStudios/FloppaBotGo/pkg/database"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
)

// Deps are the services commands run against
type Deps struct {
	Store database.Store
	// Database is nil on the in-memory driver
	Database utils.DatabaseStatus
	// Events is optional
	Events mqtt.Publisher
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// /ping, /status
	utils.RegisterUtilsCommands(client, deps.Database)

	// /set-channel, /set-message, /set-tiktok, /set-birthday, /admin-speak
	setup.RegisterSetupCommands(client, deps.Store)

	// /warn, /kick, /ban, /warnings, /report
	mod.RegisterModCommands(client, deps.Store, deps.Events)
}
