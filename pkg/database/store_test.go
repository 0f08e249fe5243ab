package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behavior every Store implementation shares
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing values are absent", func(t *testing.T) {
		_, ok, err := store.GetChannel(ctx, "no-such-guild", models.ChannelWelcome)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.GetTikTokUsername(ctx, "no-such-guild")
		require.NoError(t, err)
		assert.False(t, ok)

		gs, err := store.GetGuildSettings(ctx, "no-such-guild")
		require.NoError(t, err)
		assert.Nil(t, gs)
	})

	t.Run("set channel is idempotent and leaves siblings alone", func(t *testing.T) {
		guild := "g-idem"
		require.NoError(t, store.SetMessage(ctx, guild, models.MessageWelcome, "hi {member}"))
		require.NoError(t, store.SetTikTokUsername(ctx, guild, "floppa"))
		require.NoError(t, store.SetChannel(ctx, guild, models.ChannelReport, "111"))

		require.NoError(t, store.SetChannel(ctx, guild, models.ChannelNotify, "222"))
		require.NoError(t, store.SetChannel(ctx, guild, models.ChannelNotify, "222"))

		id, ok, err := store.GetChannel(ctx, guild, models.ChannelNotify)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "222", id)

		id, ok, err = store.GetChannel(ctx, guild, models.ChannelReport)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "111", id)

		tpl, ok, err := store.GetMessage(ctx, guild, models.MessageWelcome)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hi {member}", tpl)

		name, ok, err := store.GetTikTokUsername(ctx, guild)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "floppa", name)
	})

	t.Run("invalid roles are rejected", func(t *testing.T) {
		err := store.SetChannel(ctx, "g-invalid", models.ChannelRole("logs"), "1")
		assert.True(t, boterrors.Is(err, boterrors.ErrInvalidArgument))

		err = store.SetMessage(ctx, "g-invalid", models.MessageRole("notify"), "x")
		assert.True(t, boterrors.Is(err, boterrors.ErrInvalidArgument))

		gs, err := store.GetGuildSettings(ctx, "g-invalid")
		require.NoError(t, err)
		assert.Nil(t, gs, "a rejected write must not create the guild")
	})

	t.Run("list guild settings", func(t *testing.T) {
		require.NoError(t, store.SetChannel(ctx, "g-list", models.ChannelNotify, "333"))

		all, err := store.ListGuildSettings(ctx)
		require.NoError(t, err)

		var found *models.GuildSettings
		for _, gs := range all {
			if gs.GuildID == "g-list" {
				found = gs
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "333", found.Channels["notify"])
	})

	t.Run("concurrent warnings are not lost", func(t *testing.T) {
		const n = 25
		user := "u-concurrent"

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.AddWarning(ctx, user, fmt.Sprintf("reason %d", i), "mod")
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		rec, ok, err := store.GetWarnings(ctx, user)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, n, rec.Count)
		assert.Len(t, rec.Reasons, n)
	})

	t.Run("add warning returns the updated record", func(t *testing.T) {
		rec, err := store.AddWarning(ctx, "u-single", "spam", "Floppa")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, 1, rec.Count)
		assert.Equal(t, []models.WarnEntry{{Reason: "spam", Moderator: "Floppa"}}, rec.Reasons)

		_, ok, err := store.GetWarnings(ctx, "u-never-warned")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("record join", func(t *testing.T) {
		require.NoError(t, store.RecordJoin(ctx, "u-join", "Alice"))
		require.NoError(t, store.RecordJoin(ctx, "u-join", "Alice2"))
	})

	t.Run("reports in the same second get distinct ids", func(t *testing.T) {
		a, err := store.AddReport(ctx, "r1", "target", "spam")
		require.NoError(t, err)
		b, err := store.AddReport(ctx, "r2", "target", "spam")
		require.NoError(t, err)
		c, err := store.AddReport(ctx, "r1", "target", "spam again")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.NotEqual(t, a, c)
		assert.True(t, strings.HasPrefix(a, "r1-target-"))
	})

	t.Run("birthdays", func(t *testing.T) {
		require.NoError(t, store.SetBirthday(ctx, "u-bday-1", "03-14"))
		require.NoError(t, store.SetBirthday(ctx, "u-bday-2", "03-14"))
		require.NoError(t, store.SetBirthday(ctx, "u-bday-3", "12-25"))

		err := store.SetBirthday(ctx, "u-bday-4", "14-03")
		assert.True(t, boterrors.Is(err, boterrors.ErrInvalidArgument))

		b, ok, err := store.GetBirthday(ctx, "u-bday-3")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "12-25", b)

		recs, err := store.BirthdaysOn(ctx, "03-14")
		require.NoError(t, err)
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.UserID)
		}
		assert.ElementsMatch(t, []string{"u-bday-1", "u-bday-2"}, ids)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreReportsSameSecond(t *testing.T) {
	store := NewMemoryStore()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	ctx := context.Background()
	_, err := store.AddReport(ctx, "alice", "mallory", "spam")
	require.NoError(t, err)
	_, err = store.AddReport(ctx, "alice", "mallory", "more spam")
	require.NoError(t, err)

	reports := store.Reports()
	require.Len(t, reports, 2, "the second report must not overwrite the first")
	for _, r := range reports {
		assert.True(t, strings.HasPrefix(r.ID, fmt.Sprintf("alice-mallory-%d-", fixed.Unix())), r.ID)
		assert.Equal(t, fixed, r.CreatedAt)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec, err := store.AddWarning(ctx, "u", "r", "m")
	require.NoError(t, err)
	rec.Count = 99
	rec.Reasons[0].Reason = "changed"

	got, _, err := store.GetWarnings(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "r", got.Reasons[0].Reason)
}

func TestMemoryStoreWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _, _ = store.GetChannel(ctx, "g", models.ChannelNotify)
	assert.Equal(t, 0, store.Writes())

	require.NoError(t, store.RecordJoin(ctx, "u", "Alice"))
	assert.Equal(t, 1, store.Writes())

	u, ok := store.User("u")
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Name)
}
