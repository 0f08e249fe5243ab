package setup

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createAdminSpeakCommand creates the /admin-speak command
func createAdminSpeakCommand() *discord.Command {
	return discord.NewCommand(
		"admin-speak",
		"Make the bot speak in a specific channel",
		"setup",
		adminSpeakHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Channel to speak in",
			Required:     true,
			ChannelTypes: textChannelTypes,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Text to send",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels)
}

func adminSpeakHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("channel")
	message := ctx.GetStringOption("message")
	if channel == nil || channel.ID == "" || message == "" {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "admin-speak", "You must pick a channel and a message.")
	}

	if err := ctx.Send(channel.ID, message); err != nil {
		return err
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Sent to <#%s>", channel.ID))
}
