package database

import (
	"context"
	"fmt"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/google/uuid"
)

// SettingsStore holds per-guild channel assignments, message templates and the TikTok username.
// Reads return ok=false when the guild or the field was never set.
type SettingsStore interface {
	SetChannel(ctx context.Context, guildID string, role models.ChannelRole, channelID string) error
	GetChannel(ctx context.Context, guildID string, role models.ChannelRole) (string, bool, error)
	SetMessage(ctx context.Context, guildID string, role models.MessageRole, template string) error
	GetMessage(ctx context.Context, guildID string, role models.MessageRole) (string, bool, error)
	SetTikTokUsername(ctx context.Context, guildID, name string) error
	GetTikTokUsername(ctx context.Context, guildID string) (string, bool, error)
	// GetGuildSettings returns nil when the guild has no settings document
	GetGuildSettings(ctx context.Context, guildID string) (*models.GuildSettings, error)
	ListGuildSettings(ctx context.Context) ([]*models.GuildSettings, error)
}

// ModerationStore holds member names, warning histories and reports
type ModerationStore interface {
	RecordJoin(ctx context.Context, userID, name string) error
	// AddWarning atomically increments the count and appends the reason.
	// The returned record is nil when the write was queued while offline.
	AddWarning(ctx context.Context, userID, reason, moderator string) (*models.WarningRecord, error)
	GetWarnings(ctx context.Context, userID string) (*models.WarningRecord, bool, error)
	AddReport(ctx context.Context, reporterID, reportedID, reason string) (string, error)
}

// BirthdayStore holds MM-DD birthdays by user
type BirthdayStore interface {
	SetBirthday(ctx context.Context, userID, birthday string) error
	GetBirthday(ctx context.Context, userID string) (string, bool, error)
	BirthdaysOn(ctx context.Context, day string) ([]*models.BirthdayRecord, error)
}

// Store bundles every store the bot needs
type Store interface {
	SettingsStore
	ModerationStore
	BirthdayStore
}

// NewReportID builds "<reporter>-<reported>-<unix>-<random>".
// The random suffix keeps two reports in the same second apart.
func NewReportID(reporterID, reportedID string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%s", reporterID, reportedID, now.Unix(), uuid.NewString()[:8])
}

func validateChannelRole(op string, role models.ChannelRole) error {
	if !role.Valid() {
		return boterrors.Newf(boterrors.ErrInvalidArgument, op, "unknown channel role %q", role)
	}
	return nil
}

func validateMessageRole(op string, role models.MessageRole) error {
	if !role.Valid() {
		return boterrors.Newf(boterrors.ErrInvalidArgument, op, "unknown message role %q", role)
	}
	return nil
}

func validateBirthday(op, birthday string) (string, error) {
	normalized, err := models.ParseBirthday(birthday)
	if err != nil {
		return "", boterrors.New(boterrors.ErrInvalidArgument, op, err)
	}
	return normalized, nil
}
