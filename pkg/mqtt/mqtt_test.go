package mqtt

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, "floppabot/moderation/warn", ModerationTopic("warn"))
	assert.Equal(t, "floppabot/notifications/tiktok", NotificationTopic("tiktok"))
}

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"floppabot/moderation/warn", "floppabot/moderation/warn", true},
		{"floppabot/moderation/+", "floppabot/moderation/kick", true},
		{"floppabot/#", "floppabot/notifications/tiktok", true},
		{"floppabot/#", "floppabot", true},
		{"floppabot/+", "floppabot/moderation/kick", false},
		{"floppabot/moderation/warn", "floppabot/moderation", false},
		{"floppabot/notifications/+", "floppabot/moderation/ban", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicMatch(tt.pattern, tt.topic))
		})
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Publish("floppabot/x", map[string]string{"a": "b"}))
	assert.False(t, c.IsConnected())
	assert.Equal(t, "", c.ClientID())
	assert.Error(t, c.Subscribe("floppabot/x", func(string, []byte) {}))
	assert.NotPanics(t, c.Close)
}

func TestRecorderEncodesEvents(t *testing.T) {
	r := NewRecorder()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.Publish(ModerationTopic("kick"), ModerationEvent{
		GuildID: "g1", Action: "kick", TargetID: "u2", ModeratorID: "u1", Timestamp: at,
	}))
	require.NoError(t, r.Publish(NotificationTopic("tiktok"), NotificationEvent{
		GuildID: "g1", Kind: "tiktok", Subject: "floppa", Link: "https://t/1", Timestamp: at,
	}))

	mod := r.Messages("floppabot/moderation/+")
	require.Len(t, mod, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(mod[0].Payload, &decoded))
	assert.Equal(t, "kick", decoded["action"])
	assert.Equal(t, "u2", decoded["targetId"])
	assert.NotContains(t, decoded, "reason")

	assert.Len(t, r.Messages("floppabot/#"), 2)
	assert.Empty(t, r.Messages("floppabot/notifications/birthday"))
}

func TestEncodeRejectsUnsupported(t *testing.T) {
	_, err := Encode(make(chan int))
	assert.Error(t, err)
}
