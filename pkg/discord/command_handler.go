package discord

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command registration and publishing
type CommandHandler struct {
	client     *ExtendedClient
	devGuildID string
}

// NewCommandHandler creates a new CommandHandler.
// With a dev guild set, commands are published there instead of globally.
func NewCommandHandler(client *ExtendedClient, devGuildID string) *CommandHandler {
	return &CommandHandler{
		client:     client,
		devGuildID: devGuildID,
	}
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// ApplicationCommands returns the Discord definitions of every registered command
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	cmds := ch.client.Commands.All()
	out := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, cmd.ToApplicationCommand())
	}
	return out
}

// TargetGuild returns where commands are published ("" means global)
func (ch *CommandHandler) TargetGuild() string {
	return ch.devGuildID
}

// RegisterCommands publishes all slash commands with one bulk overwrite
func (ch *CommandHandler) RegisterCommands(s CommandSyncSession, appID string) error {
	return ch.SyncCommands(s, appID, ch.devGuildID)
}

// SyncCommands replaces the commands of guildID ("" for global) with the registered ones
func (ch *CommandHandler) SyncCommands(s CommandSyncSession, appID, guildID string) error {
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}
	logger.Info(fmt.Sprintf("🔄 Registering %s commands...", scope), "CommandHandler")

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, ch.ApplicationCommands())
	if err != nil {
		return fmt.Errorf("bulk overwrite %s commands: %w", scope, err)
	}

	logger.Success(fmt.Sprintf("✅ %d %s commands registered.", len(created), scope), "CommandHandler")
	return nil
}

// ListCommands returns the commands published for guildID ("" for global)
func (ch *CommandHandler) ListCommands(s CommandSyncSession, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return s.ApplicationCommands(appID, guildID)
}

// UnregisterCommands removes every published command for guildID ("" for global)
func (ch *CommandHandler) UnregisterCommands(s CommandSyncSession, appID, guildID string) (int, error) {
	commands, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Failed to delete command "+cmd.Name+": "+err.Error(), "CommandHandler")
			continue
		}
		removed++
	}

	logger.Success(fmt.Sprintf("%d commands removed.", removed), "CommandHandler")
	return removed, nil
}
