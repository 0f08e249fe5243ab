package models

import (
	"fmt"
	"time"
)

// BirthdayLayout is the MM-DD layout birthdays are stored in
const BirthdayLayout = "01-02"

// BirthdayRecord stores a user's birthday ("birthdays" collection)
type BirthdayRecord struct {
	UserID   string `bson:"_id" json:"userId"`
	Birthday string `bson:"birthday" json:"birthday"`
}

// BirthdayKey returns the MM-DD key of t in UTC
func BirthdayKey(t time.Time) string {
	return t.UTC().Format(BirthdayLayout)
}

// ParseBirthday validates an MM-DD date and returns it normalized.
// February 29 is accepted.
func ParseBirthday(s string) (string, error) {
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return "", fmt.Errorf("birthday must be MM-DD, got %q", s)
	}
	return t.Format(BirthdayLayout), nil
}
