// Package setup provides the per-guild configuration commands.
// Every command except /set-birthday requires Manage Server or Manage Channels.
package setup

import (
	"context"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Store is what the setup commands read and write
type Store interface {
	SetChannel(ctx context.Context, guildID string, role models.ChannelRole, channelID string) error
	GetChannel(ctx context.Context, guildID string, role models.ChannelRole) (string, bool, error)
	SetMessage(ctx context.Context, guildID string, role models.MessageRole, template string) error
	SetTikTokUsername(ctx context.Context, guildID, name string) error
	SetBirthday(ctx context.Context, userID, birthday string) error
}

// RegisterSetupCommands registers the configuration commands
func RegisterSetupCommands(client *discord.ExtendedClient, store Store) {
	client.CommandHandler.RegisterCommand(createSetChannelCommand(store))
	client.CommandHandler.RegisterCommand(createSetMessageCommand(store))
	client.CommandHandler.RegisterCommand(createSetTikTokCommand(store))
	client.CommandHandler.RegisterCommand(createSetBirthdayCommand(store))
	client.CommandHandler.RegisterCommand(createAdminSpeakCommand())
}

func channelRoleChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.ChannelRoles))
	for _, role := range models.ChannelRoles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(role), Value: string(role)})
	}
	return choices
}

func messageRoleChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.MessageRoles))
	for _, role := range models.MessageRoles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(role), Value: string(role)})
	}
	return choices
}

var textChannelTypes = []discordgo.ChannelType{
	discordgo.ChannelTypeGuildText,
	discordgo.ChannelTypeGuildNews,
}
