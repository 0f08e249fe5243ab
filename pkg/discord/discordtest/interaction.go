package discordtest

import (
	"github.com/bwmarrin/discordgo"
)

// Invocation builds a slash command interaction
type Invocation struct {
	GuildID     string
	ChannelID   string
	UserID      string
	Username    string
	Nick        string
	GlobalName  string
	Permissions int64
	Name        string
	Options     []*discordgo.ApplicationCommandInteractionDataOption
	Resolved    *discordgo.ApplicationCommandInteractionDataResolved
}

// NewInvocation starts an invocation of command name by a member of guild "guild-1"
func NewInvocation(name string) *Invocation {
	return &Invocation{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		UserID:    "user-1",
		Username:  "invoker",
		Name:      name,
	}
}

// WithPermissions sets the invoking member's permissions
func (inv *Invocation) WithPermissions(perms int64) *Invocation {
	inv.Permissions = perms
	return inv
}

// WithNames sets the invoking member's server nickname and global name
func (inv *Invocation) WithNames(nick, globalName string) *Invocation {
	inv.Nick = nick
	inv.GlobalName = globalName
	return inv
}

// String adds a string option
func (inv *Invocation) String(name, value string) *Invocation {
	inv.Options = append(inv.Options, &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value,
	})
	return inv
}

// Int adds an integer option. Discord sends numbers as JSON floats.
func (inv *Invocation) Int(name string, value int) *Invocation {
	inv.Options = append(inv.Options, &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value),
	})
	return inv
}

// User adds a user option and resolves it
func (inv *Invocation) User(name, userID, username string) *Invocation {
	inv.Options = append(inv.Options, &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: userID,
	})
	inv.resolved().Users[userID] = &discordgo.User{ID: userID, Username: username}
	return inv
}

// Channel adds a channel option and resolves it
func (inv *Invocation) Channel(name, channelID string) *Invocation {
	inv.Options = append(inv.Options, &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionChannel, Value: channelID,
	})
	inv.resolved().Channels[channelID] = &discordgo.Channel{ID: channelID, GuildID: inv.GuildID}
	return inv
}

func (inv *Invocation) resolved() *discordgo.ApplicationCommandInteractionDataResolved {
	if inv.Resolved == nil {
		inv.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
			Users:    make(map[string]*discordgo.User),
			Channels: make(map[string]*discordgo.Channel),
		}
	}
	return inv.Resolved
}

// Build returns the InteractionCreate event
func (inv *Invocation) Build() *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   inv.GuildID,
			ChannelID: inv.ChannelID,
			Member: &discordgo.Member{
				GuildID:     inv.GuildID,
				User:        &discordgo.User{ID: inv.UserID, Username: inv.Username, GlobalName: inv.GlobalName},
				Nick:        inv.Nick,
				Permissions: inv.Permissions,
			},
			Data: discordgo.ApplicationCommandInteractionData{
				ID:       "command-" + inv.Name,
				Name:     inv.Name,
				Options:  inv.Options,
				Resolved: inv.Resolved,
			},
		},
	}
}

// ResponseContent returns the text of a response, or "" for nil
func ResponseContent(resp *discordgo.InteractionResponse) string {
	if resp == nil || resp.Data == nil {
		return ""
	}
	return resp.Data.Content
}

// IsEphemeral reports whether a response is only visible to the invoker
func IsEphemeral(resp *discordgo.InteractionResponse) bool {
	return resp != nil && resp.Data != nil && resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}
