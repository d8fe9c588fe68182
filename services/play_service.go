package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"unjumble/models"
	"unjumble/puzzle"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PlayService is the player-facing side: jumbled play projections, answer
// checking and play counting. It never exposes the unshuffled sentence text.
type PlayService struct {
	db    *gorm.DB
	cache *PlayCache
	log   zerolog.Logger
}

func NewPlayService(db *gorm.DB, cache *PlayCache, log zerolog.Logger) *PlayService {
	return &PlayService{db: db, cache: cache, log: log}
}

// PlaySentence keeps the sentence's original index so answers can reference
// it even when the play order is randomized.
type PlaySentence struct {
	SentenceIndex int     `json:"sentence_index"`
	Jumbled       string  `json:"jumbled"`
	SentenceImage *string `json:"sentence_image"`
}

// PlayView is the public-safe projection of a game: no creator identity, no
// internal fields, sentence text only in jumbled form.
type PlayView struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	ThumbnailImage   string         `json:"thumbnail_image"`
	ScorePerSentence int            `json:"score_per_sentence"`
	IsRandomized     bool           `json:"is_randomized"`
	Sentences        []PlaySentence `json:"sentences"`
}

type SubmittedAnswer struct {
	SentenceIndex int    `json:"sentence_index"`
	Answer        string `json:"answer" binding:"required"`
}

type CheckAnswerRequest struct {
	GameID  string            `json:"game_id" binding:"required"`
	Answers []SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
}

type AnswerResult struct {
	SentenceIndex int    `json:"sentence_index"`
	IsCorrect     bool   `json:"is_correct"`
	Score         int    `json:"score"`
	Message       string `json:"message"`
}

type CheckAnswerResponse struct {
	Status     bool           `json:"status"`
	Message    string         `json:"message"`
	TotalScore int            `json:"total_score"`
	Results    []AnswerResult `json:"results"`
}

// GetPlay builds a fresh play projection for a game. With publicOnly set an
// unpublished game is reported as not found, same as a missing one.
func (s *PlayService) GetPlay(ctx context.Context, gameID string, publicOnly bool) (*PlayView, error) {
	game, err := s.fetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if publicOnly && !game.IsPublished {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return s.project(game)
}

// GetPuzzle picks the earliest-created published unjumble game and returns
// its play projection.
func (s *PlayService) GetPuzzle(ctx context.Context) (*PlayView, error) {
	var game models.Game
	err := s.db.WithContext(ctx).
		Joins("JOIN game_templates ON game_templates.id = games.game_template_id").
		Where("game_templates.slug = ? AND games.is_published = ?", models.TemplateUnjumble, true).
		Order("games.created_at ASC").
		Preload("Template").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no playable puzzle", ErrNotFound)
		}
		return nil, err
	}
	return s.project(&game)
}

// CheckAnswer evaluates every submitted answer against its indexed sentence.
// Comparison is case-insensitive and preserves whitespace; a correct answer
// is worth the game's score_per_sentence, a wrong one zero.
func (s *PlayService) CheckAnswer(ctx context.Context, req *CheckAnswerRequest) (*CheckAnswerResponse, error) {
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", ErrInvalidGame)
	}

	game, err := s.fetchGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	doc, err := game.Document()
	if err != nil || len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("%w: game %s", ErrDataNotFound, req.GameID)
	}

	resp := CheckAnswerResponse{
		Status:  true,
		Message: "Correct Answer",
		Results: make([]AnswerResult, 0, len(req.Answers)),
	}
	for _, ans := range req.Answers {
		if ans.SentenceIndex < 0 || ans.SentenceIndex >= len(doc.Sentences) {
			return nil, fmt.Errorf("%w: sentence %d", ErrNotFound, ans.SentenceIndex)
		}

		correct := puzzle.Check(doc.Sentences[ans.SentenceIndex].SentenceText, ans.Answer)
		score := puzzle.Score(correct, doc.ScorePerSentence)
		message := "Correct Answer"
		if !correct {
			message = "Wrong Answer"
			resp.Message = "Wrong Answer"
		}

		resp.TotalScore += score
		resp.Results = append(resp.Results, AnswerResult{
			SentenceIndex: ans.SentenceIndex,
			IsCorrect:     correct,
			Score:         score,
			Message:       message,
		})
	}

	return &resp, nil
}

// IncrementPlayCount bumps the per-game counter in a single UPDATE so
// concurrent plays never lose increments.
func (s *PlayService) IncrementPlayCount(ctx context.Context, gameID string) error {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", gameID).
		UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	// The cached record carries a stale count now.
	if err := s.cache.Invalidate(ctx, gameID); err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID).Msg("failed to invalidate play cache")
	}
	return nil
}

// fetchGame reads through the play cache.
func (s *PlayService) fetchGame(ctx context.Context, gameID string) (*models.Game, error) {
	if game := s.cache.Get(ctx, gameID); game != nil {
		return game, nil
	}

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

	if err := s.cache.Set(ctx, &game); err != nil {
		s.log.Debug().Err(err).Str("game_id", gameID).Msg("failed to cache game")
	}
	return &game, nil
}

func (s *PlayService) project(game *models.Game) (*PlayView, error) {
	doc, err := game.Document()
	if err != nil || len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("%w: game %s", ErrDataNotFound, game.ID)
	}

	sentences := make([]PlaySentence, len(doc.Sentences))
	for i, sentence := range doc.Sentences {
		sentences[i] = PlaySentence{
			SentenceIndex: i,
			Jumbled:       puzzle.Shuffle(sentence.SentenceText),
			SentenceImage: sentence.SentenceImage,
		}
	}
	if doc.IsRandomized {
		rand.Shuffle(len(sentences), func(i, j int) {
			sentences[i], sentences[j] = sentences[j], sentences[i]
		})
	}

	return &PlayView{
		ID:               game.ID,
		Name:             game.Name,
		Description:      game.Description,
		ThumbnailImage:   game.ThumbnailImage,
		ScorePerSentence: doc.ScorePerSentence,
		IsRandomized:     doc.IsRandomized,
		Sentences:        sentences,
	}, nil
}
