package setup

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createSetBirthdayCommand creates the /set-birthday command.
// Users can only set their own birthday.
func createSetBirthdayCommand(store Store) *discord.Command {
	return discord.NewCommand(
		"set-birthday",
		"Tell the bot your birthday (MM-DD)",
		"setup",
		func(ctx *discord.CommandContext) error {
			day, err := models.ParseBirthday(strings.TrimSpace(ctx.GetStringOption("date")))
			if err != nil {
				return boterrors.New(boterrors.ErrInvalidArgument, "set-birthday", err)
			}
			if err := store.SetBirthday(ctx.Context(), ctx.User().ID, day); err != nil {
				return err
			}
			return ctx.ReplyEphemeral(fmt.Sprintf("🎂 Your birthday is set to **%s**.", day))
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "date",
			Description: "Month and day, for example 03-14",
			Required:    true,
			MinLength:   func() *int { v := 5; return &v }(),
			MaxLength:   5,
		},
	)
}
