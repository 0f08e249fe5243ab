package setup

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createSetChannelCommand creates the /set-channel command
func createSetChannelCommand(store Store) *discord.Command {
	return discord.NewCommand(
		"set-channel",
		"Choose the channel used for welcomes, goodbyes, notifications, reports or birthdays",
		"setup",
		func(ctx *discord.CommandContext) error {
			role := models.ChannelRole(ctx.GetStringOption("role"))
			channel := ctx.GetChannelOption("channel")
			if channel == nil || channel.ID == "" {
				return boterrors.Newf(boterrors.ErrInvalidArgument, "set-channel", "You must pick a channel.")
			}

			if err := store.SetChannel(ctx.Context(), ctx.GuildID(), role, channel.ID); err != nil {
				return err
			}
			return ctx.Reply(fmt.Sprintf("✅ The **%s** channel is now <#%s>.", role, channel.ID))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "role",
			Description: "What the channel is used for",
			Required:    true,
			Choices:     channelRoleChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Channel to use",
			Required:     true,
			ChannelTypes: textChannelTypes,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}
