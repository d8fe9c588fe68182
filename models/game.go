package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNoDocument = errors.New("game has no embedded document")

// Game is a stored minigame definition. The game-type specific configuration
// lives in GameJSON as an UnjumbleDocument.
type Game struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`
	// The unique index is partial so a soft-deleted game stops occupying its
	// name while it waits for the reaper.
	Name           string         `json:"name" gorm:"not null;uniqueIndex:udx_games_name,where:deleted_at IS NULL"`
	Description    string         `json:"description"`
	ThumbnailImage string         `json:"thumbnail_image"`
	IsPublished    bool           `json:"is_published" gorm:"not null;default:false"`
	PlayCount      int64          `json:"play_count" gorm:"not null;default:0"`
	CreatorID      uint           `json:"creator_id" gorm:"not null;index"`
	GameTemplateID uint           `json:"game_template_id" gorm:"not null"`
	GameJSON       datatypes.JSON `json:"game_json" gorm:"type:json"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Creator  User         `json:"-" gorm:"foreignKey:CreatorID"`
	Template GameTemplate `json:"template,omitempty" gorm:"foreignKey:GameTemplateID"`
}

// Sentence is one answer the player has to reconstruct, with an optional
// illustration stored as a media key.
type Sentence struct {
	SentenceText  string  `json:"sentence_text"`
	SentenceImage *string `json:"sentence_image"`
}

// UnjumbleDocument is the embedded payload of an unjumble game.
type UnjumbleDocument struct {
	ScorePerSentence int        `json:"score_per_sentence"`
	IsRandomized     bool       `json:"is_randomized"`
	Sentences        []Sentence `json:"sentences"`
}

// Document decodes the embedded unjumble payload.
func (g *Game) Document() (*UnjumbleDocument, error) {
	if len(g.GameJSON) == 0 {
		return nil, ErrNoDocument
	}
	var doc UnjumbleDocument
	if err := json.Unmarshal(g.GameJSON, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SetDocument encodes doc into the GameJSON column.
func (g *Game) SetDocument(doc *UnjumbleDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	g.GameJSON = datatypes.JSON(b)
	return nil
}
