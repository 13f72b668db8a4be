package models

import (
	"time"

	"github.com/google/uuid"
)

type List struct {
	ID            uuid.UUID `db:"id"`
	UploadID      uuid.UUID `db:"upload_id"`
	AgentID       uuid.UUID `db:"agent_id"`
	AgentPosition int       `db:"agent_position"`
	Items         string    `db:"items"`
	ItemCount     int       `db:"item_count"`
	FileName      string    `db:"file_name"`
	CreatedAt     time.Time `db:"created_at"`
}

type Agent struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Mobile       string    `db:"mobile"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
