package mod

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

const maxBanDeleteDays = 7

// createBanCommand creates the /ban command
func (m *moderation) createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a member from the server",
		"mod",
		m.banHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to ban",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the ban",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "days",
			Description: "Days of messages to delete (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    maxBanDeleteDays,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers)
}

// banHandler handles the /ban command
func (m *moderation) banHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("user")
	if user == nil {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "ban", "You must pick a member.")
	}
	if user.ID == ctx.User().ID {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "ban", "You can't ban yourself.")
	}

	reason := ctx.GetStringOption("reason")
	if reason == "" {
		reason = noReason
	}

	days, _ := ctx.GetIntOption("days")
	if days < 0 || days > maxBanDeleteDays {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "ban", "Days must be between 0 and %d.", maxBanDeleteDays)
	}

	if err := ctx.Session.GuildBanCreateWithReason(ctx.GuildID(), user.ID, reason, int(days)); err != nil {
		return boterrors.New(boterrors.ErrExternalActionFailed, "ban", err)
	}

	m.publish(ctx, "ban", user.ID, reason)
	return ctx.Reply(fmt.Sprintf("🔨 **%s** has been banned.\n**Reason:** %s", displayName(user.ID, user.Username), reason))
}
