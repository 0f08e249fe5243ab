package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/models"
)

// MemoryStore implements Store in process memory.
// It backs DATABASE_DRIVER=memory and the tests; nothing survives a restart.
type MemoryStore struct {
	mu        sync.Mutex
	settings  map[string]*models.GuildSettings
	users     map[string]*models.UserRecord
	warnings  map[string]*models.WarningRecord
	birthdays map[string]string
	reports   map[string]*models.ReportRecord
	writes    int
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings:  make(map[string]*models.GuildSettings),
		users:     make(map[string]*models.UserRecord),
		warnings:  make(map[string]*models.WarningRecord),
		birthdays: make(map[string]string),
		reports:   make(map[string]*models.ReportRecord),
		now:       time.Now,
	}
}

// SetClock overrides the clock used for report IDs
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Writes returns how many mutating operations were applied
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// guild returns the settings document for guildID, creating it. The caller must hold s.mu.
func (s *MemoryStore) guild(guildID string) *models.GuildSettings {
	gs, ok := s.settings[guildID]
	if !ok {
		gs = &models.GuildSettings{GuildID: guildID}
		s.settings[guildID] = gs
	}
	return gs
}

// Settings

func (s *MemoryStore) SetChannel(_ context.Context, guildID string, role models.ChannelRole, channelID string) error {
	if err := validateChannelRole("SetChannel", role); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.guild(guildID)
	if gs.Channels == nil {
		gs.Channels = make(map[string]string)
	}
	gs.Channels[string(role)] = channelID
	s.writes++
	return nil
}

func (s *MemoryStore) GetChannel(_ context.Context, guildID string, role models.ChannelRole) (string, bool, error) {
	if err := validateChannelRole("GetChannel", role); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.settings[guildID].Channel(role)
	return id, ok, nil
}

func (s *MemoryStore) SetMessage(_ context.Context, guildID string, role models.MessageRole, template string) error {
	if err := validateMessageRole("SetMessage", role); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.guild(guildID)
	if gs.Messages == nil {
		gs.Messages = make(map[string]string)
	}
	gs.Messages[string(role)] = template
	s.writes++
	return nil
}

func (s *MemoryStore) GetMessage(_ context.Context, guildID string, role models.MessageRole) (string, bool, error) {
	if err := validateMessageRole("GetMessage", role); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.settings[guildID].Message(role)
	return tpl, ok, nil
}

func (s *MemoryStore) SetTikTokUsername(_ context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guild(guildID).TikTok = name
	s.writes++
	return nil
}

func (s *MemoryStore) GetTikTokUsername(_ context.Context, guildID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.settings[guildID].TikTokUsername()
	return name, ok, nil
}

func (s *MemoryStore) GetGuildSettings(_ context.Context, guildID string) (*models.GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[guildID].Clone(), nil
}

// ListGuildSettings returns copies sorted by guild ID
func (s *MemoryStore) ListGuildSettings(_ context.Context) ([]*models.GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.GuildSettings, 0, len(s.settings))
	for _, gs := range s.settings {
		out = append(out, gs.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

// Moderation

func (s *MemoryStore) RecordJoin(_ context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = &models.UserRecord{UserID: userID, Name: name}
	s.writes++
	return nil
}

// User returns the recorded member, if any
func (s *MemoryStore) User(userID string) (*models.UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	c := *u
	return &c, true
}

func (s *MemoryStore) AddWarning(_ context.Context, userID, reason, moderator string) (*models.WarningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.warnings[userID]
	if !ok {
		rec = &models.WarningRecord{UserID: userID}
		s.warnings[userID] = rec
	}
	rec.Count++
	rec.Reasons = append(rec.Reasons, models.WarnEntry{Reason: reason, Moderator: moderator})
	s.writes++
	return copyWarnings(rec), nil
}

func (s *MemoryStore) GetWarnings(_ context.Context, userID string) (*models.WarningRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.warnings[userID]
	if !ok {
		return nil, false, nil
	}
	return copyWarnings(rec), true, nil
}

func copyWarnings(rec *models.WarningRecord) *models.WarningRecord {
	c := *rec
	c.Reasons = append([]models.WarnEntry(nil), rec.Reasons...)
	return &c
}

func (s *MemoryStore) AddReport(_ context.Context, reporterID, reportedID, reason string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	report := &models.ReportRecord{
		ID:        NewReportID(reporterID, reportedID, now),
		Reporter:  reporterID,
		Reported:  reportedID,
		Reason:    reason,
		CreatedAt: now.UTC(),
	}
	s.reports[report.ID] = report
	s.writes++
	return report.ID, nil
}

// Reports returns every stored report
func (s *MemoryStore) Reports() []models.ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ReportRecord, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Birthdays

func (s *MemoryStore) SetBirthday(_ context.Context, userID, birthday string) error {
	normalized, err := validateBirthday("SetBirthday", birthday)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.birthdays[userID] = normalized
	s.writes++
	return nil
}

func (s *MemoryStore) GetBirthday(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.birthdays[userID]
	return b, ok, nil
}

func (s *MemoryStore) BirthdaysOn(_ context.Context, day string) ([]*models.BirthdayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BirthdayRecord
	for userID, b := range s.birthdays {
		if b == day {
			out = append(out, &models.BirthdayRecord{UserID: userID, Birthday: b})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
