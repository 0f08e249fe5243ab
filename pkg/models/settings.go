package models

// ChannelRole is a named purpose slot mapped to a channel per guild
type ChannelRole string

const (
	ChannelWelcome  ChannelRole = "welcome"
	ChannelGoodbye  ChannelRole = "goodbye"
	ChannelNotify   ChannelRole = "notify"
	ChannelReport   ChannelRole = "report"
	ChannelBirthday ChannelRole = "birthday"
)

// ChannelRoles lists every channel role in display order
var ChannelRoles = []ChannelRole{ChannelWelcome, ChannelGoodbye, ChannelNotify, ChannelReport, ChannelBirthday}

// Valid reports whether r is a known channel role
func (r ChannelRole) Valid() bool {
	for _, role := range ChannelRoles {
		if r == role {
			return true
		}
	}
	return false
}

// MessageRole is a named template slot per guild
type MessageRole string

const (
	MessageWelcome MessageRole = "welcome"
	MessageGoodbye MessageRole = "goodbye"
	MessageWarn    MessageRole = "warn"
)

// MessageRoles lists every message role in display order
var MessageRoles = []MessageRole{MessageWelcome, MessageGoodbye, MessageWarn}

// Valid reports whether r is a known message role
func (r MessageRole) Valid() bool {
	for _, role := range MessageRoles {
		if r == role {
			return true
		}
	}
	return false
}

// GuildSettings is the per-guild configuration document in the "settings" collection
type GuildSettings struct {
	GuildID  string            `bson:"_id" json:"guildId"`
	Channels map[string]string `bson:"channels,omitempty" json:"channels,omitempty"`
	Messages map[string]string `bson:"messages,omitempty" json:"messages,omitempty"`
	TikTok   string            `bson:"tiktok,omitempty" json:"tiktok,omitempty"`
}

// Channel returns the channel assigned to role
func (g *GuildSettings) Channel(role ChannelRole) (string, bool) {
	if g == nil {
		return "", false
	}
	id, ok := g.Channels[string(role)]
	return id, ok && id != ""
}

// Message returns the template assigned to role
func (g *GuildSettings) Message(role MessageRole) (string, bool) {
	if g == nil {
		return "", false
	}
	tpl, ok := g.Messages[string(role)]
	return tpl, ok && tpl != ""
}

// TikTokUsername returns the feed username, if one was set
func (g *GuildSettings) TikTokUsername() (string, bool) {
	if g == nil || g.TikTok == "" {
		return "", false
	}
	return g.TikTok, true
}

// Clone returns a deep copy so callers can't mutate cached settings
func (g *GuildSettings) Clone() *GuildSettings {
	if g == nil {
		return nil
	}
	c := &GuildSettings{GuildID: g.GuildID, TikTok: g.TikTok}
	if g.Channels != nil {
		c.Channels = make(map[string]string, len(g.Channels))
		for k, v := range g.Channels {
			c.Channels[k] = v
		}
	}
	if g.Messages != nil {
		c.Messages = make(map[string]string, len(g.Messages))
		for k, v := range g.Messages {
			c.Messages[k] = v
		}
	}
	return c
}
