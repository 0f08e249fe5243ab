package discord

import (
	"context"
	"fmt"
	"testing"

	"github.com/PancyStudios/FloppaBotGo/pkg/discord/discordtest"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardEmbed(t *testing.T) {
	embed := Card{
		Title:        "🎥 New TikTok from @floppa",
		URL:          "https://www.tiktok.com/@floppa/video/1",
		Description:  "caracal",
		ThumbnailURL: "https://img.example/1.jpg",
		Color:        ColorTikTok,
	}.Embed()

	assert.Equal(t, "🎥 New TikTok from @floppa", embed.Title)
	assert.Equal(t, "https://www.tiktok.com/@floppa/video/1", embed.URL)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "https://img.example/1.jpg", embed.Thumbnail.URL)
	assert.Nil(t, embed.Footer)
	assert.Equal(t, ColorTikTok, embed.Color)

	bare := Card{Title: "x"}.Embed()
	assert.Nil(t, bare.Thumbnail)
}

func TestMessengerSends(t *testing.T) {
	s := discordtest.NewSession()
	m := NewMessenger(s, 100)
	ctx := context.Background()

	require.NoError(t, m.SendText(ctx, "c1", "hello"))
	require.NoError(t, m.SendCard(ctx, "c2", Card{Title: "card"}))

	require.Len(t, s.SentTo("c1"), 1)
	assert.Equal(t, "hello", s.SentTo("c1")[0].Content)
	require.Len(t, s.SentTo("c2"), 1)
	assert.Equal(t, "card", s.SentTo("c2")[0].Embed.Title)
}

func TestMessengerWrapsFailures(t *testing.T) {
	s := discordtest.NewSession()
	s.FailChannels["gone"] = true
	m := NewMessenger(s, 100)

	err := m.SendText(context.Background(), "gone", "hello")
	require.Error(t, err)
	assert.True(t, boterrors.Is(err, boterrors.ErrExternalActionFailed))
	assert.ErrorIs(t, err, discordtest.ErrRejected)
}

func TestMessengerHonorsCancellation(t *testing.T) {
	s := discordtest.NewSession()
	m := NewMessenger(s, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.SendText(ctx, "c1", "hello"))
	assert.Empty(t, s.AllSent())
}

func TestMemberIDsPagesAndSkipsBots(t *testing.T) {
	s := discordtest.NewSession()
	for i := 0; i < membersPageSize+5; i++ {
		s.AddMember("g1", fmt.Sprintf("u%04d", i), "member")
	}
	s.Members["g1"] = append(s.Members["g1"], &discordgo.Member{
		User: &discordgo.User{ID: "bot", Bot: true},
	})

	ids, err := NewMessenger(s, 100).MemberIDs(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, ids, membersPageSize+5)
	assert.NotContains(t, ids, "bot")
	assert.Equal(t, "u0000", ids[0])
}

func TestMemberIDsFailure(t *testing.T) {
	s := discordtest.NewSession()
	s.FailMembers = true

	_, err := NewMessenger(s, 100).MemberIDs(context.Background(), "g1")
	assert.True(t, boterrors.Is(err, boterrors.ErrExternalActionFailed))
}
