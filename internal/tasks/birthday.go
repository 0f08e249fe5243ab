package tasks

import (
	"context"
	"fmt"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
)

// BirthdayLister finds the users born on a MM-DD day
type BirthdayLister interface {
	BirthdaysOn(ctx context.Context, day string) ([]*models.BirthdayRecord, error)
}

// BirthdayNotifier greets members on their birthday in each guild's birthday channel.
// Sent greetings are not persisted, so a restart on the same UTC day greets again.
type BirthdayNotifier struct {
	guilds    GuildLister
	birthdays BirthdayLister
	messenger Messenger
	events    mqtt.Publisher
	now       func() time.Time
}

// NewBirthdayNotifier creates a notifier. events may be nil.
func NewBirthdayNotifier(guilds GuildLister, birthdays BirthdayLister, messenger Messenger, events mqtt.Publisher) *BirthdayNotifier {
	return &BirthdayNotifier{
		guilds:    guilds,
		birthdays: birthdays,
		messenger: messenger,
		events:    events,
		now:       time.Now,
	}
}

// BirthdayMessage is the greeting sent for userID
func BirthdayMessage(userID string) string {
	return fmt.Sprintf("🎉 Happy birthday <@%s>! 🎂", userID)
}

// RunCycle greets every member whose birthday is the UTC date of now and
// returns how many greetings were sent
func (n *BirthdayNotifier) RunCycle(ctx context.Context, now time.Time) int {
	day := models.BirthdayKey(now)

	records, err := n.birthdays.BirthdaysOn(ctx, day)
	if err != nil {
		boterrors.Track(fmt.Errorf("birthdays on %s: %w", day, err), "Birthday")
		return 0
	}
	if len(records) == 0 {
		return 0
	}
	today := make(map[string]bool, len(records))
	for _, r := range records {
		today[r.UserID] = true
	}

	guilds, err := n.guilds.ListGuildSettings(ctx)
	if err != nil {
		boterrors.Track(fmt.Errorf("list guilds for birthdays: %w", err), "Birthday")
		return 0
	}

	sent := 0
	for _, g := range guilds {
		if ctx.Err() != nil {
			break
		}
		channelID, ok := g.Channel(models.ChannelBirthday)
		if !ok {
			continue
		}
		sent += n.greetGuild(ctx, g.GuildID, channelID, today)
	}
	return sent
}

// Run adapts RunCycle to a scheduler job
func (n *BirthdayNotifier) Run(ctx context.Context) {
	now := n.now()
	sent := n.RunCycle(ctx, now)
	logger.Info(fmt.Sprintf("Birthday cycle for %s sent %d greetings", models.BirthdayKey(now), sent), "Birthday")
}

func (n *BirthdayNotifier) greetGuild(ctx context.Context, guildID, channelID string, today map[string]bool) int {
	members, err := n.messenger.MemberIDs(ctx, guildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Guild %s: cannot list members: %v", guildID, err), "Birthday")
		return 0
	}

	sent := 0
	for _, userID := range members {
		if !today[userID] {
			continue
		}
		if err := n.messenger.SendText(ctx, channelID, BirthdayMessage(userID)); err != nil {
			logger.Error(fmt.Sprintf("Guild %s: failed to greet %s: %v", guildID, userID, err), "Birthday")
			continue
		}
		sent++
		n.publish(guildID, channelID, userID)
	}
	return sent
}

func (n *BirthdayNotifier) publish(guildID, channelID, userID string) {
	if n.events == nil {
		return
	}
	err := n.events.Publish(mqtt.NotificationTopic("birthday"), mqtt.NotificationEvent{
		GuildID:   guildID,
		Kind:      "birthday",
		ChannelID: channelID,
		Subject:   userID,
		Timestamp: n.now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to publish birthday event: "+err.Error(), "Birthday")
	}
}
