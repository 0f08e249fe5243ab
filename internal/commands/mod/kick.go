package mod

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /kick command
func (m *moderation) createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a member from the server",
		"mod",
		m.kickHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to kick",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the kick",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers)
}

// kickHandler handles the /kick command
func (m *moderation) kickHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("user")
	if user == nil {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "kick", "You must pick a member.")
	}
	if user.ID == ctx.User().ID {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "kick", "You can't kick yourself.")
	}

	reason := ctx.GetStringOption("reason")
	if reason == "" {
		reason = noReason
	}

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), user.ID, reason); err != nil {
		return boterrors.New(boterrors.ErrExternalActionFailed, "kick", err)
	}

	m.publish(ctx, "kick", user.ID, reason)
	return ctx.Reply(fmt.Sprintf("👢 **%s** has been kicked.\n**Reason:** %s", displayName(user.ID, user.Username), reason))
}
