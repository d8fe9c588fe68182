package services_test

import (
	"path/filepath"
	"strings"
	"testing"

	"unjumble/models"
	"unjumble/services"
	"unjumble/storage"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	media *storage.MediaStore
	games *services.GameService
	play  *services.PlayService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, services.NewPlayCache(nil, 0))
}

func newTestEnvWithCache(t *testing.T, cache *services.PlayCache) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.GameTemplate{}, &models.Game{}))
	require.NoError(t, db.Create(&models.GameTemplate{Name: "Unjumble", Slug: models.TemplateUnjumble}).Error)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { bucket.Close() })
	media := storage.NewMediaStore(bucket)

	logger := zerolog.Nop()

	return &testEnv{
		db:    db,
		media: media,
		games: services.NewGameService(db, media, cache, logger),
		play:  services.NewPlayService(db, cache, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := models.User{Email: email, Username: strings.Split(email, "@")[0], PasswordHash: "x", Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

// validForm is a minimal well-formed create payload: two sentences, the
// first illustrated by the single uploaded image.
func validForm(name string) *services.GameForm {
	idx := 0
	return &services.GameForm{
		Name: name,
		Sentences: []services.SentenceInput{
			{SentenceText: "The quick brown fox", SentenceImageArrayIndex: &idx},
			{SentenceText: "jumps over the lazy dog"},
		},
		Thumbnail: &services.Upload{Filename: "thumb.png", Content: strings.NewReader("thumb-bytes")},
		Images:    []services.Upload{{Filename: "fox.png", Content: strings.NewReader("image-bytes")}},
	}
}
