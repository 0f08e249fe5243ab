package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatusCommand creates the /status command
func createStatusCommand(db DatabaseStatus) *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the bot status",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEmbed(statusEmbed(ctx, db))
		},
	)
}

func statusEmbed(ctx *discord.CommandContext, db DatabaseStatus) *discordgo.MessageEmbed {
	dbStatus := "🟡 | In memory"
	if db != nil {
		dbStatus, _ = db.GetStatus()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	guilds, uptime := 0, time.Duration(0)
	if ctx.Client != nil {
		guilds = ctx.Client.GuildCount()
		uptime = ctx.Client.Uptime()
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Bot status",
		Color: discord.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Version", Value: config.Version, Inline: true},
			{Name: "🗄 Database", Value: dbStatus, Inline: true},
			{Name: "🏠 Servers", Value: fmt.Sprintf("%d", guilds), Inline: true},
			{Name: "📶 Latency", Value: fmt.Sprintf("%dms", ctx.Session.HeartbeatLatency().Milliseconds()), Inline: true},
			{Name: "🖥 RAM", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "⏱ Uptime", Value: formatDuration(uptime), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Go %s · discordgo %s", strings.TrimPrefix(runtime.Version(), "go"), discordgo.VERSION),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, " ")
}
