package models

// EventFilter is the server-side predicate set for listing events.
type EventFilter struct {
	Text     string
	Category string
	Format   string
	City     string
	Level    string
	Sort     string // date | rating | popularity
}
