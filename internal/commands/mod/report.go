package mod

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createReportCommand creates the /report command
func (m *moderation) createReportCommand() *discord.Command {
	return discord.NewCommand(
		"report",
		"Report a member to the moderators",
		"mod",
		m.reportHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to report",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "What happened",
			Required:    true,
		},
	)
}

// reportHandler stores the report first, then forwards it to the report channel.
// A report without a report channel still counts as recorded.
func (m *moderation) reportHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("user")
	if user == nil {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "report", "You must pick a member.")
	}
	reason := ctx.GetStringOption("reason")
	if reason == "" {
		return boterrors.Newf(boterrors.ErrInvalidArgument, "report", "You must say what happened.")
	}

	reporter := ctx.User()
	id, err := m.store.AddReport(ctx.Context(), reporter.ID, user.ID, reason)
	if err != nil {
		return err
	}
	m.publish(ctx, "report", user.ID, reason)

	channelID, ok, err := m.store.GetChannel(ctx.Context(), ctx.GuildID(), models.ChannelReport)
	if err != nil {
		return err
	}
	if !ok {
		return boterrors.Newf(boterrors.ErrNotConfigured, "report",
			"Your report was recorded (`%s`), but no report channel is set on this server.", id)
	}

	card := discord.Card{
		Title: "🚨 New report",
		Color: discord.ColorError,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reported", Value: user.Mention(), Inline: true},
			{Name: "By", Value: reporter.Mention(), Inline: true},
			{Name: "Reason", Value: reason},
		},
		Footer: "ID: " + id,
	}
	if err := ctx.SendCard(channelID, card); err != nil {
		return boterrors.Newf(boterrors.ErrExternalActionFailed, "report",
			"your report was recorded (`%s`) but could not be forwarded: %v", id, err)
	}

	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Report `%s` sent to the moderators.", id))
}
