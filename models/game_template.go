package models

import "time"

// TemplateUnjumble is the slug of the game template this backend serves.
const TemplateUnjumble = "unjumble"

// GameTemplate is a category of game ("unjumble", "quiz", ...) that a Game
// record is an instance of.
type GameTemplate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
