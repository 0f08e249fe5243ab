package discord

import (
	"context"
	"fmt"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Embed colors
const (
	ColorInfo    = 0x5865F2
	ColorSuccess = 0x57F287
	ColorWarn    = 0xFEE75C
	ColorError   = 0xED4245
	ColorTikTok  = 0xFE2C55
)

// Card is a structured notification rendered as an embed
type Card struct {
	Title        string
	URL          string
	Description  string
	ThumbnailURL string
	Color        int
	Footer       string
	Fields       []*discordgo.MessageEmbedField
}

// Embed renders the card
func (c Card) Embed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Color:       c.Color,
		Fields:      c.Fields,
	}
	if c.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: c.ThumbnailURL}
	}
	if c.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: c.Footer}
	}
	return embed
}

func sendText(s Session, channelID, content string) error {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		return boterrors.New(boterrors.ErrExternalActionFailed, "send to "+channelID, err)
	}
	return nil
}

func sendCard(s Session, channelID string, card Card) error {
	if _, err := s.ChannelMessageSendEmbed(channelID, card.Embed()); err != nil {
		return boterrors.New(boterrors.ErrExternalActionFailed, "send card to "+channelID, err)
	}
	return nil
}

// Messenger sends outbound messages for background jobs under a shared rate limit
type Messenger struct {
	session Session
	limiter *rate.Limiter
}

// NewMessenger creates a messenger allowing perSecond sends per second
func NewMessenger(s Session, perSecond int) *Messenger {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Messenger{
		session: s,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

func (m *Messenger) wait(ctx context.Context) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send rate limit: %w", err)
	}
	return nil
}

// SendText posts a plain message
func (m *Messenger) SendText(ctx context.Context, channelID, content string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	return sendText(m.session, channelID, content)
}

// SendCard posts a card
func (m *Messenger) SendCard(ctx context.Context, channelID string, card Card) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	return sendCard(m.session, channelID, card)
}

const membersPageSize = 1000

// MemberIDs lists the IDs of every non-bot member of a guild
func (m *Messenger) MemberIDs(ctx context.Context, guildID string) ([]string, error) {
	var ids []string
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		members, err := m.session.GuildMembers(guildID, after, membersPageSize)
		if err != nil {
			return nil, boterrors.New(boterrors.ErrExternalActionFailed, "list members of "+guildID, err)
		}
		for _, member := range members {
			if member.User == nil || member.User.Bot {
				continue
			}
			ids = append(ids, member.User.ID)
		}
		if len(members) < membersPageSize || members[len(members)-1].User == nil {
			return ids, nil
		}
		after = members[len(members)-1].User.ID
	}
}
