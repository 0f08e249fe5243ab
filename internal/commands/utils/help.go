package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var categoryTitles = map[string]string{
	"utils": "🔧 Utility",
	"setup": "⚙️ Setup",
	"mod":   "🛡️ Moderation",
}

var categoryOrder = []string{"utils", "setup", "mod"}

// createHelpCommand creates the /help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"List the commands you can use",
		"utils",
		helpHandler,
	)
}

// helpHandler lists the registered commands the invoker is allowed to run
func helpHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(helpEmbed(ctx.Client.Commands.All(), func(perms int64) bool {
		return perms == 0 || ctx.HasPermission(perms)
	}))
}

func helpEmbed(cmds []*discord.Command, allowed func(perms int64) bool) *discordgo.MessageEmbed {
	byCategory := make(map[string][]string)
	for _, cmd := range cmds {
		if !allowed(cmd.UserPermissions) {
			continue
		}
		byCategory[cmd.Category] = append(byCategory[cmd.Category], fmt.Sprintf("• `/%s` - %s", cmd.Name, cmd.Description))
	}

	embed := &discordgo.MessageEmbed{
		Title: "📖 FloppaBot help",
		Color: discord.ColorInfo,
	}
	for _, category := range categoryOrder {
		lines := byCategory[category]
		if len(lines) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  categoryTitles[category],
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
