// Package mod provides the moderation commands: /warn, /kick, /ban, /warnings and /report.
// Each command is in its own file.
package mod

import (
	"context"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
)

// Store is what the moderation commands read and write
type Store interface {
	AddWarning(ctx context.Context, userID, reason, moderator string) (*models.WarningRecord, error)
	GetWarnings(ctx context.Context, userID string) (*models.WarningRecord, bool, error)
	AddReport(ctx context.Context, reporterID, reportedID, reason string) (string, error)
	GetChannel(ctx context.Context, guildID string, role models.ChannelRole) (string, bool, error)
	GetMessage(ctx context.Context, guildID string, role models.MessageRole) (string, bool, error)
}

const noReason = "No reason given"

type moderation struct {
	store  Store
	events mqtt.Publisher
	now    func() time.Time
}

// RegisterModCommands registers the moderation commands. events may be nil.
func RegisterModCommands(client *discord.ExtendedClient, store Store, events mqtt.Publisher) {
	m := &moderation{store: store, events: events, now: time.Now}

	client.CommandHandler.RegisterCommand(m.createWarnCommand())
	client.CommandHandler.RegisterCommand(m.createKickCommand())
	client.CommandHandler.RegisterCommand(m.createBanCommand())
	client.CommandHandler.RegisterCommand(m.createWarningsCommand())
	client.CommandHandler.RegisterCommand(m.createReportCommand())
}

// publish mirrors a completed action on MQTT
func (m *moderation) publish(ctx *discord.CommandContext, action, targetID, reason string) {
	if m.events == nil {
		return
	}
	err := m.events.Publish(mqtt.ModerationTopic(action), mqtt.ModerationEvent{
		GuildID:     ctx.GuildID(),
		Action:      action,
		TargetID:    targetID,
		ModeratorID: ctx.User().ID,
		Reason:      reason,
		Timestamp:   m.now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to publish "+action+" event: "+err.Error(), "Mod")
	}
}

// displayName prefers the resolved username and falls back to a mention
func displayName(id, username string) string {
	if username != "" {
		return username
	}
	return "<@" + id + ">"
}
