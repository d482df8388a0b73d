package entity

import "time"

// CommandRecord is one handled smart-home command, persisted for the
// history endpoint.
type CommandRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Command   string    `json:"command" db:"command"`
	Skill     string    `json:"skill" db:"skill"`
	Response  string    `json:"response" db:"response"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatSession holds per-user conversation state between turns, e.g. a
// dim command still waiting for its percentage. Stored in Redis with a
// short TTL; a command and its follow-up are minutes apart at most.
type ChatSession struct {
	UserID         string    `json:"user_id"`
	PendingSkill   string    `json:"pending_skill,omitempty"`
	PendingCommand string    `json:"pending_command,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
