package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/PancyStudios/FloppaBotGo/pkg/template"
	"github.com/bwmarrin/discordgo"
)

// Default templates used when a guild has not set its own
const (
	DefaultWelcomeMessage = "👋 Welcome {member}!"
	DefaultGoodbyeMessage = "😢 {member} has left the server."
)

const memberEventTimeout = 10 * time.Second

// MemberStore is what the membership handlers read and write
type MemberStore interface {
	RecordJoin(ctx context.Context, userID, name string) error
	GetChannel(ctx context.Context, guildID string, role models.ChannelRole) (string, bool, error)
	GetMessage(ctx context.Context, guildID string, role models.MessageRole) (string, bool, error)
}

// MemberHandler greets joining members and says goodbye to leaving ones
type MemberHandler struct {
	store MemberStore
	// guildName resolves {server}; the guild ID is used when it is nil or finds nothing
	guildName func(guildID string) string
}

// NewMemberHandler creates a MemberHandler
func NewMemberHandler(store MemberStore) *MemberHandler {
	return &MemberHandler{store: store}
}

// stateGuildName reads guild names from the gateway state cache
func stateGuildName(state *discordgo.State) func(string) string {
	return func(guildID string) string {
		if state == nil {
			return ""
		}
		g, err := state.Guild(guildID)
		if err != nil {
			return ""
		}
		return g.Name
	}
}

func (h *MemberHandler) serverName(guildID string) string {
	if h.guildName != nil {
		if name := h.guildName(guildID); name != "" {
			return name
		}
	}
	return guildID
}

// RegisterMemberEvents registers the member join/leave handlers
func RegisterMemberEvents(client *discord.ExtendedClient, h *MemberHandler) {
	h.guildName = stateGuildName(client.Session.State)
	client.EventHandler.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		ctx, cancel := context.WithTimeout(context.Background(), memberEventTimeout)
		defer cancel()
		h.OnJoin(ctx, s, m)
	})
	client.EventHandler.OnGuildMemberRemove(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		ctx, cancel := context.WithTimeout(context.Background(), memberEventTimeout)
		defer cancel()
		h.OnLeave(ctx, s, m)
	})
}

// OnJoin records the member, then posts the welcome message if a welcome channel is set.
// {member} renders as a mention.
func (h *MemberHandler) OnJoin(ctx context.Context, s discord.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil {
		return
	}
	logger.Info(fmt.Sprintf("👋 New member: %s in server %s", m.User.Username, m.GuildID), "Member")

	if err := h.store.RecordJoin(ctx, m.User.ID, m.Member.DisplayName()); err != nil {
		logger.Error(fmt.Sprintf("Failed to record join of %s: %v", m.User.ID, err), "Member")
	}

	h.announce(ctx, s, m.GuildID, models.ChannelWelcome, models.MessageWelcome, DefaultWelcomeMessage, m.User.Mention())
}

// OnLeave posts the goodbye message if a goodbye channel is set.
// {member} renders as the username since the member can no longer be mentioned.
func (h *MemberHandler) OnLeave(ctx context.Context, s discord.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.User == nil {
		return
	}
	logger.Info(fmt.Sprintf("👋 Goodbye: %s left server %s", m.User.Username, m.GuildID), "Member")

	h.announce(ctx, s, m.GuildID, models.ChannelGoodbye, models.MessageGoodbye, DefaultGoodbyeMessage, m.User.Username)
}

func (h *MemberHandler) announce(ctx context.Context, s discord.Session, guildID string, channelRole models.ChannelRole, messageRole models.MessageRole, fallback, member string) {
	channelID, ok, err := h.store.GetChannel(ctx, guildID, channelRole)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to read %s channel of %s: %v", channelRole, guildID, err), "Member")
		return
	}
	if !ok {
		return
	}

	tpl, _, err := h.store.GetMessage(ctx, guildID, messageRole)
	if err != nil {
		logger.Warn(fmt.Sprintf("Failed to read %s message of %s, using default: %v", messageRole, guildID, err), "Member")
	}

	content := template.RenderOr(tpl, fallback, template.Vars{
		template.Member: member,
		template.Server: h.serverName(guildID),
	})
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		logger.Error(fmt.Sprintf("Failed to send %s message in %s: %v", messageRole, guildID, err), "Member")
	}
}
