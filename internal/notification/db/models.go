package db

import "time"

// Notification は notifications テーブルの1行。
type Notification struct {
	ID        string
	UserID    string
	Service   string
	Type      string
	Known     bool
	Title     string
	Message   string
	Payload   string
	IsRead    bool
	CreatedAt time.Time
}
