package models

import "time"

// UserRecord stores the last known display name of a member ("users" collection)
type UserRecord struct {
	UserID string `bson:"_id" json:"userId"`
	Name   string `bson:"name" json:"name"`
}

// WarnEntry is one warning in a user's history
type WarnEntry struct {
	Reason    string `bson:"reason" json:"reason"`
	Moderator string `bson:"mod" json:"mod"`
}

// WarningRecord is the warning history of a user ("warnings" collection).
// Count and Reasons are always updated together.
type WarningRecord struct {
	UserID  string      `bson:"_id" json:"userId"`
	Count   int         `bson:"count" json:"count"`
	Reasons []WarnEntry `bson:"reasons" json:"reasons"`
}

// ReportRecord is a write-once user report ("reports" collection)
type ReportRecord struct {
	ID        string    `bson:"_id" json:"id"`
	Reporter  string    `bson:"reporter" json:"reporter"`
	Reported  string    `bson:"reported" json:"reported"`
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
