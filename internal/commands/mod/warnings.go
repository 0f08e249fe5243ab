package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// maxListedWarnings caps the reasons shown in one embed
const maxListedWarnings = 15

// createWarningsCommand creates the /warnings command.
// Anyone can list their own warnings; listing someone else's needs Kick Members.
func (m *moderation) createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"List the warnings of a member",
		"mod",
		m.warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "[STAFF] Member to look up (defaults to you)",
			Required:    false,
		},
	)
}

func (m *moderation) warningsHandler(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("user")
	isModerator := ctx.HasPermission(discordgo.PermissionKickMembers)
	if target == nil {
		target = ctx.User()
	} else if target.ID != ctx.User().ID && !isModerator {
		return boterrors.New(boterrors.ErrPermissionDenied, "warnings", nil)
	}

	record, _, err := m.store.GetWarnings(ctx.Context(), target.ID)
	if err != nil {
		return err
	}
	return ctx.ReplyEphemeralEmbed(warningsEmbed(displayName(target.ID, target.Username), record, isModerator))
}

// warningsEmbed lists the newest reasons first. Moderators are only shown to moderators.
func warningsEmbed(name string, record *models.WarningRecord, showModerators bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🔖 Warnings of %s", name),
	}
	if record == nil || record.Count == 0 {
		embed.Color = discord.ColorSuccess
		embed.Description = "No warnings found.\n\n> 💫 **Warnings:** 0"
		return embed
	}

	embed.Color = discord.ColorWarn
	var b strings.Builder
	shown := 0
	for i := len(record.Reasons) - 1; i >= 0 && shown < maxListedWarnings; i-- {
		w := record.Reasons[i]
		fmt.Fprintf(&b, "> **#%d** %s", i+1, w.Reason)
		if showModerators && w.Moderator != "" {
			fmt.Fprintf(&b, " (by %s)", w.Moderator)
		}
		b.WriteString("\n")
		shown++
	}
	if hidden := len(record.Reasons) - shown; hidden > 0 {
		fmt.Fprintf(&b, "> …and %d older\n", hidden)
	}
	fmt.Fprintf(&b, "\n> 💫 **Warnings:** %d", record.Count)
	embed.Description = b.String()
	return embed
}
