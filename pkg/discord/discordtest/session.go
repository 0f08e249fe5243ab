// Package discordtest provides an in-memory discord.Session that records every call.
package discordtest

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Sent is a message posted to a channel
type Sent struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
}

// Removal is a kick or a ban
type Removal struct {
	GuildID string
	UserID  string
	Reason  string
	Days    int
}

// ErrRejected is returned for calls configured to fail
var ErrRejected = errors.New("HTTP 403 Forbidden, Missing Permissions")

// Session records calls and serves members from memory
type Session struct {
	mu sync.Mutex

	Responses []*discordgo.InteractionResponse
	Sent      []Sent
	Kicks     []Removal
	Bans      []Removal

	// Members are served by GuildMembers, keyed by guild ID
	Members map[string][]*discordgo.Member

	// FailChannels makes sends to these channels fail
	FailChannels map[string]bool
	FailKick     bool
	FailBan      bool
	FailRespond  bool
	FailMembers  bool
}

// NewSession creates an empty recording session
func NewSession() *Session {
	return &Session{
		Members:      make(map[string][]*discordgo.Member),
		FailChannels: make(map[string]bool),
	}
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRespond {
		return ErrRejected
	}
	s.Responses = append(s.Responses, resp)
	return nil
}

func (s *Session) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailChannels[channelID] {
		return nil, ErrRejected
	}
	s.Sent = append(s.Sent, Sent{ChannelID: channelID, Content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (s *Session) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailChannels[channelID] {
		return nil, ErrRejected
	}
	s.Sent = append(s.Sent, Sent{ChannelID: channelID, Embed: embed})
	return &discordgo.Message{ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

func (s *Session) GuildMemberDeleteWithReason(guildID, userID, reason string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKick {
		return ErrRejected
	}
	s.Kicks = append(s.Kicks, Removal{GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}

func (s *Session) GuildBanCreateWithReason(guildID, userID, reason string, days int, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBan {
		return ErrRejected
	}
	s.Bans = append(s.Bans, Removal{GuildID: guildID, UserID: userID, Reason: reason, Days: days})
	return nil
}

// GuildMembers pages through Members like the REST endpoint, ordered as stored
func (s *Session) GuildMembers(guildID string, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailMembers {
		return nil, ErrRejected
	}
	members := s.Members[guildID]
	start := 0
	if after != "" {
		for i, m := range members {
			if m.User != nil && m.User.ID == after {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(members) {
		end = len(members)
	}
	return append([]*discordgo.Member(nil), members[start:end]...), nil
}

func (s *Session) HeartbeatLatency() time.Duration {
	return 42 * time.Millisecond
}

// AddMember adds a member to a guild
func (s *Session) AddMember(guildID, userID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Members[guildID] = append(s.Members[guildID], &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: username},
	})
}

// LastResponse returns the most recent interaction response
func (s *Session) LastResponse() *discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Responses) == 0 {
		return nil
	}
	return s.Responses[len(s.Responses)-1]
}

// SentTo returns the messages posted to channelID
func (s *Session) SentTo(channelID string) []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Sent
	for _, m := range s.Sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// AllSent returns a copy of every posted message
func (s *Session) AllSent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.Sent...)
}

// Removals returns copies of the recorded kicks and bans
func (s *Session) Removals() (kicks, bans []Removal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Removal(nil), s.Kicks...), append([]Removal(nil), s.Bans...)
}
