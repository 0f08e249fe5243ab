package database

import (
	"context"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names
const (
	CollectionSettings  = "settings"
	CollectionUsers     = "users"
	CollectionWarnings  = "warnings"
	CollectionBirthdays = "birthdays"
	CollectionReports   = "reports"
)

// MongoStore implements Store on top of DataManagers
type MongoStore struct {
	settings  *DataManager[models.GuildSettings]
	users     *DataManager[models.UserRecord]
	warnings  *DataManager[models.WarningRecord]
	birthdays *DataManager[models.BirthdayRecord]
	reports   *DataManager[models.ReportRecord]
	now       func() time.Time
}

// NewMongoStore creates the data managers for every collection
func NewMongoStore(db *Database) *MongoStore {
	s := &MongoStore{
		settings:  NewDataManager[models.GuildSettings](CollectionSettings, db),
		users:     NewDataManager[models.UserRecord](CollectionUsers, db),
		warnings:  NewDataManager[models.WarningRecord](CollectionWarnings, db),
		birthdays: NewDataManager[models.BirthdayRecord](CollectionBirthdays, db),
		reports:   NewDataManager[models.ReportRecord](CollectionReports, db),
		now:       time.Now,
	}

	s.settings.PrimeCache()
	s.warnings.PrimeCache()
	s.birthdays.PrimeCache()

	return s
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

// Settings

func (s *MongoStore) setSettingsField(ctx context.Context, guildID, field, value string) error {
	_, err := s.settings.Update(ctx, byID(guildID), bson.M{"$set": bson.M{field: value}})
	return err
}

func (s *MongoStore) SetChannel(ctx context.Context, guildID string, role models.ChannelRole, channelID string) error {
	if err := validateChannelRole("SetChannel", role); err != nil {
		return err
	}
	return s.setSettingsField(ctx, guildID, "channels."+string(role), channelID)
}

func (s *MongoStore) GetChannel(ctx context.Context, guildID string, role models.ChannelRole) (string, bool, error) {
	if err := validateChannelRole("GetChannel", role); err != nil {
		return "", false, err
	}
	gs, err := s.settings.Get(ctx, byID(guildID))
	if err != nil {
		return "", false, err
	}
	id, ok := gs.Channel(role)
	return id, ok, nil
}

func (s *MongoStore) SetMessage(ctx context.Context, guildID string, role models.MessageRole, template string) error {
	if err := validateMessageRole("SetMessage", role); err != nil {
		return err
	}
	return s.setSettingsField(ctx, guildID, "messages."+string(role), template)
}

func (s *MongoStore) GetMessage(ctx context.Context, guildID string, role models.MessageRole) (string, bool, error) {
	if err := validateMessageRole("GetMessage", role); err != nil {
		return "", false, err
	}
	gs, err := s.settings.Get(ctx, byID(guildID))
	if err != nil {
		return "", false, err
	}
	tpl, ok := gs.Message(role)
	return tpl, ok, nil
}

func (s *MongoStore) SetTikTokUsername(ctx context.Context, guildID, name string) error {
	return s.setSettingsField(ctx, guildID, "tiktok", name)
}

func (s *MongoStore) GetTikTokUsername(ctx context.Context, guildID string) (string, bool, error) {
	gs, err := s.settings.Get(ctx, byID(guildID))
	if err != nil {
		return "", false, err
	}
	name, ok := gs.TikTokUsername()
	return name, ok, nil
}

func (s *MongoStore) GetGuildSettings(ctx context.Context, guildID string) (*models.GuildSettings, error) {
	gs, err := s.settings.Get(ctx, byID(guildID))
	if err != nil {
		return nil, err
	}
	return gs.Clone(), nil
}

func (s *MongoStore) ListGuildSettings(ctx context.Context) ([]*models.GuildSettings, error) {
	return s.settings.GetAll(ctx, bson.M{})
}

// Moderation

func (s *MongoStore) RecordJoin(ctx context.Context, userID, name string) error {
	_, err := s.users.Update(ctx, byID(userID), bson.M{"$set": bson.M{"name": name}})
	return err
}

func (s *MongoStore) AddWarning(ctx context.Context, userID, reason, moderator string) (*models.WarningRecord, error) {
	return s.warnings.Update(ctx, byID(userID), bson.M{
		"$inc":  bson.M{"count": 1},
		"$push": bson.M{"reasons": models.WarnEntry{Reason: reason, Moderator: moderator}},
	})
}

func (s *MongoStore) GetWarnings(ctx context.Context, userID string) (*models.WarningRecord, bool, error) {
	rec, err := s.warnings.Get(ctx, byID(userID))
	if err != nil || rec == nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *MongoStore) AddReport(ctx context.Context, reporterID, reportedID, reason string) (string, error) {
	now := s.now()
	report := &models.ReportRecord{
		ID:        NewReportID(reporterID, reportedID, now),
		Reporter:  reporterID,
		Reported:  reportedID,
		Reason:    reason,
		CreatedAt: now.UTC(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return "", err
	}
	return report.ID, nil
}

// Birthdays

func (s *MongoStore) SetBirthday(ctx context.Context, userID, birthday string) error {
	normalized, err := validateBirthday("SetBirthday", birthday)
	if err != nil {
		return err
	}
	_, err = s.birthdays.Update(ctx, byID(userID), bson.M{"$set": bson.M{"birthday": normalized}})
	return err
}

func (s *MongoStore) GetBirthday(ctx context.Context, userID string) (string, bool, error) {
	rec, err := s.birthdays.Get(ctx, byID(userID))
	if err != nil || rec == nil {
		return "", false, err
	}
	return rec.Birthday, rec.Birthday != "", nil
}

func (s *MongoStore) BirthdaysOn(ctx context.Context, day string) ([]*models.BirthdayRecord, error) {
	return s.birthdays.GetAll(ctx, bson.M{"birthday": day})
}
