package tasks

import (
	"context"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
)

// Messenger is the outbound side of Discord used by background jobs.
// *discord.Messenger satisfies it.
type Messenger interface {
	SendText(ctx context.Context, channelID, content string) error
	SendCard(ctx context.Context, channelID string, card discord.Card) error
	MemberIDs(ctx context.Context, guildID string) ([]string, error)
}

// GuildLister lists every guild with stored settings
type GuildLister interface {
	ListGuildSettings(ctx context.Context) ([]*models.GuildSettings, error)
}
