package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"unjumble/models"
	"unjumble/puzzle"
	"unjumble/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// GameService implements the admin-facing lifecycle of unjumble games:
// create, edit view, update, publish toggle and delete, including the media
// files attached to a game.
type GameService struct {
	db    *gorm.DB
	media *storage.MediaStore
	cache *PlayCache
	log   zerolog.Logger
}

func NewGameService(db *gorm.DB, media *storage.MediaStore, cache *PlayCache, log zerolog.Logger) *GameService {
	return &GameService{db: db, media: media, cache: cache, log: log}
}

// Upload is one file taken from a multipart request.
type Upload struct {
	Filename string
	Content  io.Reader
}

type SentenceInput struct {
	SentenceText            string `json:"sentence_text"`
	SentenceImageArrayIndex *int   `json:"sentence_image_array_index"`
}

// GameForm carries the parsed multipart fields of create and update requests.
// Pointer fields distinguish "not supplied" from zero values so updates can
// merge instead of replace.
type GameForm struct {
	Name               string
	Description        *string
	ScorePerSentence   *int
	IsRandomized       *bool
	PublishImmediately bool
	Sentences          []SentenceInput
	Thumbnail          *Upload
	Images             []Upload
}

// mediaPrefix is the per-game folder every uploaded file lives under.
func mediaPrefix(gameID string) string {
	return path.Join("games", "unjumble", gameID)
}

func (s *GameService) CreateGame(ctx context.Context, creatorID uint, form *GameForm) (*models.Game, error) {
	if form.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGame)
	}
	if form.Thumbnail == nil {
		return nil, fmt.Errorf("%w: thumbnail_image is required", ErrInvalidGame)
	}
	if len(form.Sentences) == 0 {
		return nil, fmt.Errorf("%w: at least one sentence is required", ErrInvalidGame)
	}
	if form.ScorePerSentence != nil && *form.ScorePerSentence < 0 {
		return nil, fmt.Errorf("%w: score_per_sentence must not be negative", ErrInvalidGame)
	}

	// Pre-check the name so the common case fails fast; the unique index
	// still catches concurrent creations that pass this check together.
	var existing models.Game
	if err := s.db.WithContext(ctx).Where("name = ?", form.Name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateName
	}

	var template models.GameTemplate
	if err := s.db.WithContext(ctx).Where("slug = ?", models.TemplateUnjumble).First(&template).Error; err != nil {
		return nil, fmt.Errorf("%w: game template %q", ErrNotFound, models.TemplateUnjumble)
	}

	gameID := uuid.NewString()
	prefix := mediaPrefix(gameID)

	thumbKey, err := s.media.Upload(ctx, prefix, "thumbnail"+path.Ext(form.Thumbnail.Filename), form.Thumbnail.Content)
	if err != nil {
		return nil, err
	}

	imageKeys, err := s.uploadImages(ctx, prefix, form.Images)
	if err != nil {
		s.removeMedia(ctx, gameID)
		return nil, err
	}

	doc, err := buildDocument(form, imageKeys)
	if err != nil {
		s.removeMedia(ctx, gameID)
		return nil, err
	}

	game := models.Game{
		ID:             gameID,
		Name:           form.Name,
		ThumbnailImage: thumbKey,
		IsPublished:    form.PublishImmediately,
		CreatorID:      creatorID,
		GameTemplateID: template.ID,
	}
	if form.Description != nil {
		game.Description = *form.Description
	}
	if err := game.SetDocument(doc); err != nil {
		s.removeMedia(ctx, gameID)
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		// Uploaded files would otherwise be orphaned.
		s.removeMedia(ctx, gameID)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	game.Template = template
	return &game, nil
}

// GetGameForEdit returns the full record for the owner's edit screen. The
// same ownership policy as update/delete applies, superadmin bypass included.
func (s *GameService) GetGameForEdit(ctx context.Context, gameID string, userID uint, role string) (*models.Game, error) {
	game, err := s.getByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := canMutate(game, userID, role); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) UpdateGame(ctx context.Context, gameID string, userID uint, role string, form *GameForm) (*models.Game, error) {
	game, err := s.getByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := canMutate(game, userID, role); err != nil {
		return nil, err
	}

	doc, err := game.Document()
	if err != nil {
		return nil, fmt.Errorf("%w: game %s", ErrDataNotFound, gameID)
	}

	// Merge, never replace: absent fields keep their stored values.
	if form.Name != "" && form.Name != game.Name {
		var existing models.Game
		if err := s.db.WithContext(ctx).Where("name = ? AND id <> ?", form.Name, gameID).First(&existing).Error; err == nil {
			return nil, ErrDuplicateName
		}
		game.Name = form.Name
	}
	if form.Description != nil {
		game.Description = *form.Description
	}
	if form.ScorePerSentence != nil {
		if *form.ScorePerSentence < 0 {
			return nil, fmt.Errorf("%w: score_per_sentence must not be negative", ErrInvalidGame)
		}
		doc.ScorePerSentence = *form.ScorePerSentence
	}
	if form.IsRandomized != nil {
		doc.IsRandomized = *form.IsRandomized
	}

	// Keys no longer referenced after the save, deleted only once the save
	// succeeded so a failed update never loses files.
	var staleKeys []string

	prefix := mediaPrefix(gameID)
	if form.Thumbnail != nil {
		thumbKey, err := s.media.Upload(ctx, prefix, "thumbnail"+path.Ext(form.Thumbnail.Filename), form.Thumbnail.Content)
		if err != nil {
			return nil, err
		}
		if game.ThumbnailImage != "" && game.ThumbnailImage != thumbKey {
			staleKeys = append(staleKeys, game.ThumbnailImage)
		}
		game.ThumbnailImage = thumbKey
	}

	if form.Sentences != nil {
		imageKeys, err := s.uploadImages(ctx, prefix, form.Images)
		if err != nil {
			return nil, err
		}
		sentences, err := mapSentences(form.Sentences, imageKeys)
		if err != nil {
			return nil, err
		}
		staleKeys = append(staleKeys, supersededImages(doc.Sentences, sentences)...)
		doc.Sentences = sentences
	}

	if err := game.SetDocument(doc); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	s.invalidate(ctx, gameID)
	s.removeKeys(ctx, gameID, staleKeys)
	return game, nil
}

func (s *GameService) UpdatePublishStatus(ctx context.Context, gameID string, userID uint, role string, isPublished bool) (*models.Game, error) {
	game, err := s.getByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := canMutate(game, userID, role); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(game).Update("is_published", isPublished).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, gameID)
	return game, nil
}

// DeleteGame soft-deletes the record, then removes the media folder on a
// best-effort basis. A folder failure is logged and left for the reaper, so
// the request never fails after the record is already gone.
func (s *GameService) DeleteGame(ctx context.Context, gameID string, userID uint, role string) error {
	game, err := s.getByID(ctx, gameID)
	if err != nil {
		return err
	}
	if err := canMutate(game, userID, role); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(game).Error; err != nil {
		return err
	}

	s.invalidate(ctx, gameID)
	s.removeMedia(ctx, gameID)
	return nil
}

func (s *GameService) getByID(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Preload("Template").First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		return nil, err
	}
	if game.Template.Slug != models.TemplateUnjumble {
		return nil, fmt.Errorf("%w: game %s is not an unjumble game", ErrNotFound, gameID)
	}
	return &game, nil
}

func (s *GameService) uploadImages(ctx context.Context, prefix string, images []Upload) ([]string, error) {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		key, err := s.media.Upload(ctx, prefix, uuid.NewString()+path.Ext(img.Filename), img.Content)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *GameService) removeMedia(ctx context.Context, gameID string) {
	if err := s.media.RemoveFolder(ctx, mediaPrefix(gameID)); err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID).Msg("media folder cleanup failed, leaving it for the reaper")
	}
}

func (s *GameService) removeKeys(ctx context.Context, gameID string, keys []string) {
	for _, key := range keys {
		if err := s.media.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("game_id", gameID).Str("key", key).Msg("failed to remove superseded media file")
		}
	}
}

// supersededImages lists the image keys of prev that no sentence in next
// still references.
func supersededImages(prev, next []models.Sentence) []string {
	kept := make(map[string]bool, len(next))
	for _, sentence := range next {
		if sentence.SentenceImage != nil {
			kept[*sentence.SentenceImage] = true
		}
	}
	var stale []string
	for _, sentence := range prev {
		if sentence.SentenceImage != nil && !kept[*sentence.SentenceImage] {
			stale = append(stale, *sentence.SentenceImage)
		}
	}
	return stale
}

func (s *GameService) invalidate(ctx context.Context, gameID string) {
	if err := s.cache.Invalidate(ctx, gameID); err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID).Msg("failed to invalidate play cache")
	}
}

// canMutate is the single ownership policy shared by edit view, update,
// publish toggle and delete: the creator, or a superadmin.
func canMutate(game *models.Game, userID uint, role string) error {
	if game.CreatorID == userID || role == models.RoleSuperAdmin {
		return nil
	}
	return ErrForbidden
}

func buildDocument(form *GameForm, imageKeys []string) (*models.UnjumbleDocument, error) {
	doc := models.UnjumbleDocument{
		ScorePerSentence: puzzle.DefaultScorePerSentence,
	}
	if form.ScorePerSentence != nil {
		doc.ScorePerSentence = *form.ScorePerSentence
	}
	if form.IsRandomized != nil {
		doc.IsRandomized = *form.IsRandomized
	}

	sentences, err := mapSentences(form.Sentences, imageKeys)
	if err != nil {
		return nil, err
	}
	doc.Sentences = sentences

	return &doc, nil
}

// mapSentences attaches uploaded images to sentences by positional index
// into the uploaded-file list.
func mapSentences(inputs []SentenceInput, imageKeys []string) ([]models.Sentence, error) {
	sentences := make([]models.Sentence, 0, len(inputs))
	for i, input := range inputs {
		if input.SentenceText == "" {
			return nil, fmt.Errorf("%w: sentence %d has no text", ErrInvalidGame, i)
		}
		sentence := models.Sentence{SentenceText: input.SentenceText}
		if input.SentenceImageArrayIndex != nil {
			idx := *input.SentenceImageArrayIndex
			if idx < 0 || idx >= len(imageKeys) {
				return nil, fmt.Errorf("%w: sentence %d references image index %d out of %d uploads", ErrInvalidGame, i, idx, len(imageKeys))
			}
			sentence.SentenceImage = &imageKeys[idx]
		}
		sentences = append(sentences, sentence)
	}
	return sentences, nil
}
