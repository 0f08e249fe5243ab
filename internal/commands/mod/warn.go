package mod

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/template"
	"github.com/bwmarrin/discordgo"
)

// DefaultWarnMessage is used when the guild has no warn template
const DefaultWarnMessage = "⚠️ {member} has been warned. Reason: {reason}"

// createWarnCommand creates the /warn command
func (m *moderation) createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Warn a member",
		"mod",
		m.warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to warn",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the warning",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers)
}

// warnHandler records the warning, then replies with the guild's warn template
func (m *moderation) warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("user")
	if user == nil {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "warn", "You must pick a member.")
	}
	reason := ctx.GetStringOption("reason")
	if reason == "" {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "warn", "You must give a reason.")
	}

	record, err := m.store.AddWarning(ctx.Context(), user.ID, reason, ctx.DisplayName())
	if err != nil {
		return err
	}

	tpl, _, err := m.store.GetMessage(ctx.Context(), ctx.GuildID(), models.MessageWarn)
	if err != nil {
		logger.Warn("Warn template unavailable, using default: "+err.Error(), "Mod")
	}
	reply := template.RenderOr(tpl, DefaultWarnMessage, template.Vars{
		template.Member: user.Mention(),
		template.Reason: reason,
	})
	if record != nil {
		reply += fmt.Sprintf("\n-# Warning #%d", record.Count)
	}

	m.publish(ctx, "warn", user.ID, reason)
	return ctx.Reply(reply)
}
