package model

import "time"

// Applicant is one person's stored application state: account linkage,
// preferred locale and the serialized answer document.
type Applicant struct {
	ID        int64  `bson:"_id"`
	AccountID string `bson:"accountId"`

	PreferredLocale string `bson:"preferredLocale"`

	// Data is the JSON answer document, navigated by Path.
	Data string `bson:"data"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
