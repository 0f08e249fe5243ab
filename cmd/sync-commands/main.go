// Package main provides a utility to sync Discord slash commands.
// It replaces the published commands with the ones the bot currently defines.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List the published commands
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a specific guild instead of global commands
//	-sync           Replace the published commands with the current ones (default)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/FloppaBotGo/internal/commands"
	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/database"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
)

func main() {
	// Parse command line flags
	listCmd := flag.Bool("list", false, "List the published commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	syncCmd := flag.Bool("sync", false, "Replace the published commands with the current ones")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		fmt.Println("botToken is required")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(logger.Options{})
	defer log.Close()

	logger.System("Starting command sync utility...", "SyncCommands")

	client, err := discord.NewClient(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	// Only the REST API is used, no gateway connection is needed
	me, err := client.Session.User("@me")
	if err != nil {
		logger.Critical(fmt.Sprintf("Error fetching application user: %v", err), "SyncCommands")
		os.Exit(1)
	}
	appID := me.ID
	logger.Success("Authenticated as "+me.Username, "SyncCommands")

	// Register commands to know what we should have. Handlers never run here.
	commands.RegisterAll(client, commands.Deps{Store: database.NewMemoryStore()})

	var runErr error
	switch {
	case *listCmd:
		runErr = listCommands(client, appID, *guildID)
	case *cleanCmd:
		runErr = cleanCommands(client, appID, *guildID)
	case *syncCmd:
		runErr = syncCommands(client, appID, *guildID)
	default:
		runErr = syncCommands(client, appID, *guildID)
	}
	if runErr != nil {
		logger.Error(runErr.Error(), "SyncCommands")
		os.Exit(1)
	}

	logger.Success("Operation completed", "SyncCommands")
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// listCommands lists the commands published for the scope
func listCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info(fmt.Sprintf("📋 Listing %s commands...", scopeName(guildID)), "SyncCommands")

	cmds, err := client.CommandHandler.ListCommands(client.Session, appID, guildID)
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No commands published", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}

// cleanCommands removes every command published for the scope
func cleanCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info(fmt.Sprintf("🧹 Removing %s commands...", scopeName(guildID)), "SyncCommands")

	if _, err := client.CommandHandler.UnregisterCommands(client.Session, appID, guildID); err != nil {
		return fmt.Errorf("remove commands: %w", err)
	}
	return nil
}

// syncCommands replaces the commands published for the scope with the current ones
func syncCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info(fmt.Sprintf("🔄 Syncing %s commands...", scopeName(guildID)), "SyncCommands")
	return client.CommandHandler.SyncCommands(client.Session, appID, guildID)
}
