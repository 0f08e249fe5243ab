package setup

import (
	"fmt"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/template"
	"github.com/bwmarrin/discordgo"
)

const maxTemplateLength = 1500

// createSetMessageCommand creates the /set-message command
func createSetMessageCommand(store Store) *discord.Command {
	return discord.NewCommand(
		"set-message",
		"Update the welcome, goodbye or warn message",
		"setup",
		func(ctx *discord.CommandContext) error {
			role := models.MessageRole(ctx.GetStringOption("role"))
			message := ctx.GetStringOption("message")
			if message == "" {
				return boterrors.Newf(boterrors.ErrInvalidArgument, "set-message", "The message can't be empty.")
			}
			if len(message) > maxTemplateLength {
				return boterrors.Newf(boterrors.ErrInvalidArgument, "set-message", "The message can't be longer than %d characters.", maxTemplateLength)
			}

			if err := store.SetMessage(ctx.Context(), ctx.GuildID(), role, message); err != nil {
				return err
			}

			preview := template.Render(message, template.Vars{
				template.Member: ctx.User().Mention(),
				template.Reason: "example reason",
			})
			return ctx.Reply(fmt.Sprintf("✅ The **%s** message was updated! Preview:\n%s", role, preview))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "role",
			Description: "Which message to change",
			Required:    true,
			Choices:     messageRoleChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Message text, use {member} and {reason} as placeholders",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}
