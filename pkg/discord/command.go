// Package discord provides command types and structures.
package discord

import (
	"context"
	"sync"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// CommandContext provides context for command execution
type CommandContext struct {
	Session     Session
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient

	ctx     context.Context
	mu      sync.Mutex
	replied bool
}

// NewCommandContext creates the context a command runs with
func NewCommandContext(ctx context.Context, s Session, i *discordgo.InteractionCreate, c *ExtendedClient) *CommandContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CommandContext{Session: s, Interaction: i, Client: c, ctx: ctx}
}

// Context returns the context of the invocation
func (ctx *CommandContext) Context() context.Context {
	if ctx.ctx == nil {
		return context.Background()
	}
	return ctx.ctx
}

// Replied reports whether a response was already sent
func (ctx *CommandContext) Replied() bool {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.replied
}

// Command represents a Discord slash command
type Command struct {
	Name            string
	Description     string
	Category        string
	Options         []*discordgo.ApplicationCommandOption
	UserPermissions int64
	Run             CommandRunFunc
}

// CommandRunFunc is the function type for command execution.
// A returned error is shown to the invoker unless the command already replied.
type CommandRunFunc func(ctx *CommandContext) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// WithUserPermissions sets required user permissions
func (c *Command) WithUserPermissions(perms int64) *Command {
	c.UserPermissions = perms
	return c
}

// ToApplicationCommand converts the command to a guild-only Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	contexts := []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
	appCmd := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
		Contexts:    &contexts,
	}
	if c.UserPermissions != 0 {
		perms := c.UserPermissions
		appCmd.DefaultMemberPermissions = &perms
	}
	return appCmd
}

func (ctx *CommandContext) respond(data *discordgo.InteractionResponseData) error {
	err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return boterrors.New(boterrors.ErrExternalActionFailed, "interaction respond", err)
	}
	ctx.mu.Lock()
	ctx.replied = true
	ctx.mu.Unlock()
	return nil
}

// Reply sends a reply to the interaction
func (ctx *CommandContext) Reply(content string) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Content: content,
	})
}

// ReplyEmbed sends an embed reply to the interaction
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

// ReplyEphemeral sends an ephemeral reply visible only to the user
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

// Send posts a plain message to a channel other than the interaction's
func (ctx *CommandContext) Send(channelID, content string) error {
	return sendText(ctx.Session, channelID, content)
}

// SendCard posts a card to a channel other than the interaction's
func (ctx *CommandContext) SendCard(channelID string, card Card) error {
	return sendCard(ctx.Session, channelID, card)
}

// data returns the command data, or an empty value for non-command interactions
func (ctx *CommandContext) data() discordgo.ApplicationCommandInteractionData {
	if ctx.Interaction == nil || ctx.Interaction.Interaction == nil {
		return discordgo.ApplicationCommandInteractionData{}
	}
	data, _ := ctx.Interaction.Data.(discordgo.ApplicationCommandInteractionData)
	return data
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	return findOption(ctx.data().Options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value
func (ctx *CommandContext) GetIntOption(name string) (int64, bool) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return opt.IntValue(), true
}

// optionID returns the snowflake carried by a user, channel or role option
func optionID(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if opt == nil {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}

// GetUserOption retrieves a user option, resolved from the interaction payload when possible
func (ctx *CommandContext) GetUserOption(name string) *discordgo.User {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionUser {
		return nil
	}
	id := optionID(opt)
	if resolved := ctx.data().Resolved; resolved != nil {
		if user, ok := resolved.Users[id]; ok && user != nil {
			return user
		}
	}
	return &discordgo.User{ID: id}
}

// GetChannelOption retrieves a channel option, resolved from the interaction payload when possible
func (ctx *CommandContext) GetChannelOption(name string) *discordgo.Channel {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionChannel {
		return nil
	}
	id := optionID(opt)
	if resolved := ctx.data().Resolved; resolved != nil {
		if ch, ok := resolved.Channels[id]; ok && ch != nil {
			return ch
		}
	}
	return &discordgo.Channel{ID: id}
}

// GuildID returns the guild where the interaction occurred
func (ctx *CommandContext) GuildID() string {
	return ctx.Interaction.GuildID
}

// User returns the user who triggered the interaction
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// DisplayName returns the invoker's server nickname, global name or username, in that order
func (ctx *CommandContext) DisplayName() string {
	if m := ctx.Interaction.Member; m != nil && m.User != nil {
		return m.DisplayName()
	}
	if u := ctx.User(); u != nil {
		return u.DisplayName()
	}
	return ""
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}

// HasPermission reports whether the invoking member holds perms
func (ctx *CommandContext) HasPermission(perms int64) bool {
	if ctx.Interaction.Member == nil {
		return false
	}
	return HasPermission(ctx.Interaction.Member.Permissions, perms)
}

// HasPermission reports whether granted covers required. Administrator covers everything.
func HasPermission(granted, required int64) bool {
	if granted&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return granted&required == required
}
