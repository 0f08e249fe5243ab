package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/feed"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
)

// PollResult is where a guild ended up in one poll cycle
type PollResult int

const (
	// PollSkipped means nothing was sent: no new item, empty feed or a failed fetch
	PollSkipped PollResult = iota
	// PollNotified means a notification card was sent
	PollNotified
)

// TikTokPoller announces new TikTok posts in each guild's notify channel
type TikTokPoller struct {
	guilds    GuildLister
	fetcher   feed.Fetcher
	messenger Messenger
	events    mqtt.Publisher
	lastSeen  *LastSeenCache
	host      string
	timeout   time.Duration
	now       func() time.Time
}

// TikTokPollerOptions configures a TikTokPoller
type TikTokPollerOptions struct {
	Guilds    GuildLister
	Fetcher   feed.Fetcher
	Messenger Messenger
	// Events is optional
	Events   mqtt.Publisher
	LastSeen *LastSeenCache
	// FeedHost serves /tiktok/user/video/<username>
	FeedHost string
	// FetchTimeout bounds a single guild's fetch
	FetchTimeout time.Duration
}

// NewTikTokPoller creates a poller
func NewTikTokPoller(opts TikTokPollerOptions) *TikTokPoller {
	if opts.LastSeen == nil {
		opts.LastSeen = NewLastSeenCache()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	return &TikTokPoller{
		guilds:    opts.Guilds,
		fetcher:   opts.Fetcher,
		messenger: opts.Messenger,
		events:    opts.Events,
		lastSeen:  opts.LastSeen,
		host:      opts.FeedHost,
		timeout:   opts.FetchTimeout,
		now:       time.Now,
	}
}

// RunCycle polls every guild with a notify channel and a TikTok username, one
// after another, and returns how many notifications were sent.
// A failing guild is logged and skipped.
func (p *TikTokPoller) RunCycle(ctx context.Context) int {
	guilds, err := p.guilds.ListGuildSettings(ctx)
	if err != nil {
		boterrors.Track(fmt.Errorf("list guilds for tiktok poll: %w", err), "TikTok")
		return 0
	}

	sent := 0
	for _, g := range guilds {
		if ctx.Err() != nil {
			break
		}
		channelID, ok := g.Channel(models.ChannelNotify)
		if !ok {
			continue
		}
		username, ok := g.TikTokUsername()
		if !ok {
			continue
		}
		if p.pollGuild(ctx, g.GuildID, channelID, username) == PollNotified {
			sent++
		}
	}
	return sent
}

// Run adapts RunCycle to a scheduler job
func (p *TikTokPoller) Run(ctx context.Context) {
	if n := p.RunCycle(ctx); n > 0 {
		logger.Info(fmt.Sprintf("TikTok cycle sent %d notifications", n), "TikTok")
	}
}

func (p *TikTokPoller) pollGuild(ctx context.Context, guildID, channelID, username string) PollResult {
	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.fetcher.Fetch(fetchCtx, feed.TikTokURL(p.host, username))
	if err != nil {
		if !boterrors.Is(err, boterrors.ErrFetchFailed) {
			err = boterrors.New(boterrors.ErrFetchFailed, "tiktok @"+username, err)
		}
		logger.Warn(fmt.Sprintf("Guild %s: %v", guildID, err), "TikTok")
		return PollSkipped
	}
	if len(items) == 0 {
		return PollSkipped
	}

	latest := items[0]
	if latest.Link == "" || !p.lastSeen.Swap(guildID, latest.Link) {
		return PollSkipped
	}

	card := discord.Card{
		Title:        "🎥 New TikTok from @" + username,
		URL:          latest.Link,
		Description:  latest.Title,
		ThumbnailURL: latest.ThumbnailURL,
		Color:        discord.ColorTikTok,
	}
	if err := p.messenger.SendCard(ctx, channelID, card); err != nil {
		logger.Error(fmt.Sprintf("Guild %s: failed to send TikTok notification: %v", guildID, err), "TikTok")
		return PollSkipped
	}

	p.publish(guildID, channelID, username, latest)
	return PollNotified
}

func (p *TikTokPoller) publish(guildID, channelID, username string, item feed.Item) {
	if p.events == nil {
		return
	}
	err := p.events.Publish(mqtt.NotificationTopic("tiktok"), mqtt.NotificationEvent{
		GuildID:   guildID,
		Kind:      "tiktok",
		ChannelID: channelID,
		Subject:   username,
		Link:      item.Link,
		Title:     item.Title,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to publish TikTok event: "+err.Error(), "TikTok")
	}
}
