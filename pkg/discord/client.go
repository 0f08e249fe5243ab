// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command routing, a permission gate and event registration.
package discord

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		case discordgo.LogDebug:
			logger.Debug(msg, "DiscordGo")
		default:
			logger.Info(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands sorted by name
func (cc *CommandCollection) All() []*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make([]*Command, 0, len(cc.commands))
	for _, v := range cc.commands {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// NewClient creates a new ExtendedClient. Nothing connects until Start.
func NewClient(cfg *config.Config) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}

	// Members are needed for welcome/goodbye messages and birthday scans
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers

	// Configure session
	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		isReady:  false,
	}

	// Initialize handlers
	c.CommandHandler = NewCommandHandler(c, cfg.DevGuildID)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start opens the gateway connection and routes interactions to Dispatch
func (c *ExtendedClient) Start() error {
	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot connected as: "+r.User.Username, "Client")

		// Register commands with Discord
		if err := c.CommandHandler.RegisterCommands(s, r.User.ID); err != nil {
			logger.Error("Failed to register commands: "+err.Error(), "Client")
		}
	})

	c.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		c.Dispatch(context.Background(), s, i)
	})

	c.StartTime = time.Now()

	logger.System(fmt.Sprintf("Opening gateway with %d commands loaded", c.Commands.Size()), "Client")
	return c.Session.Open()
}

// resolveCommandName builds the full command name, including subcommands
func resolveCommandName(data discordgo.ApplicationCommandInteractionData) string {
	commandName := data.Name
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if len(opt.Options) > 0 {
				commandName = data.Name + "." + opt.Name + "." + opt.Options[0].Name
			}
		} else if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			commandName = data.Name + "." + opt.Name
		}
	}
	return commandName
}

// Dispatch routes a slash command interaction to its command.
// The invoking member must hold the command's UserPermissions before Run is called.
func (c *ExtendedClient) Dispatch(parent context.Context, s Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return
	}
	commandName := resolveCommandName(data)

	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		logger.Warn("Command not found: "+commandName, "Client")
		return
	}

	ctx := NewCommandContext(parent, s, i, c)
	defer boterrors.RecoverMiddleware()()

	if i.GuildID == "" || i.Member == nil {
		_ = ctx.ReplyEphemeral("❌ This command can only be used in a server.")
		return
	}

	if cmd.UserPermissions != 0 && !ctx.HasPermission(cmd.UserPermissions) {
		logger.Warn(fmt.Sprintf("%s tried /%s without permission in %s", ctx.User().ID, commandName, i.GuildID), "Client")
		_ = ctx.ReplyEphemeral(boterrors.UserMessage(boterrors.ErrPermissionDenied))
		return
	}

	if err := cmd.Run(ctx); err != nil {
		boterrors.Track(fmt.Errorf("command %s: %w", commandName, err), "Client")
		if !ctx.Replied() {
			if replyErr := ctx.ReplyEphemeral(boterrors.UserMessage(err)); replyErr != nil {
				logger.Error("Failed to report command error: "+replyErr.Error(), "Client")
			}
		}
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime returns how long the client has been running
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// Latency returns the gateway heartbeat latency
func (c *ExtendedClient) Latency() time.Duration {
	if c.Session == nil {
		return 0
	}
	return c.Session.HeartbeatLatency()
}
