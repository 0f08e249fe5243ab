package setup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

var tiktokUsername = regexp.MustCompile(`^[A-Za-z0-9_.]{2,24}$`)

// normalizeTikTokUsername trims whitespace and a leading '@'
func normalizeTikTokUsername(raw string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !tiktokUsername.MatchString(name) {
		return "", boterrors.Newf(boterrors.ErrInvalidArgument, "set-tiktok", "%q is not a valid TikTok username.", raw)
	}
	return name, nil
}

// createSetTikTokCommand creates the /set-tiktok command
func createSetTikTokCommand(store Store) *discord.Command {
	return discord.NewCommand(
		"set-tiktok",
		"Set the TikTok account whose new posts are announced",
		"setup",
		func(ctx *discord.CommandContext) error {
			name, err := normalizeTikTokUsername(ctx.GetStringOption("username"))
			if err != nil {
				return err
			}
			if err := store.SetTikTokUsername(ctx.Context(), ctx.GuildID(), name); err != nil {
				return err
			}

			msg := fmt.Sprintf("✅ Now following **@%s**.", name)
			channelID, ok, err := store.GetChannel(ctx.Context(), ctx.GuildID(), models.ChannelNotify)
			switch {
			case err != nil:
			case ok:
				msg += fmt.Sprintf(" New posts will be announced in <#%s>.", channelID)
			default:
				msg += " Set a **notify** channel with `/set-channel` to receive announcements."
			}
			return ctx.Reply(msg)
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "username",
			Description: "TikTok username, with or without @",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}
