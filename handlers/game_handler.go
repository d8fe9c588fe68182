package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"unjumble/services"

	"github.com/gin-gonic/gin"
)

// GameHandler exposes the admin CRUD surface over unjumble games.
type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type updatePublishStatusRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondUnauthorized(c)
		return
	}

	form, closeFiles, err := bindGameForm(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer closeFiles()

	game, err := h.gameService.CreateGame(c.Request.Context(), userID.(uint), form)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Unjumble game created", game)
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondUnauthorized(c)
		return
	}

	form, closeFiles, err := bindGameForm(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer closeFiles()

	game, err := h.gameService.UpdateGame(c.Request.Context(), c.Param("game_id"), userID.(uint), c.GetString("role"), form)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Update game successfully", game)
}

func (h *GameHandler) UpdatePublishStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondUnauthorized(c)
		return
	}

	var req updatePublishStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	game, err := h.gameService.UpdatePublishStatus(c.Request.Context(), c.Param("game_id"), userID.(uint), c.GetString("role"), *req.IsPublished)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Update publish status successfully", game)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondUnauthorized(c)
		return
	}

	err := h.gameService.DeleteGame(c.Request.Context(), c.Param("game_id"), userID.(uint), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Delete game successfully", nil)
}

func (h *GameHandler) GetGameForEdit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondUnauthorized(c)
		return
	}

	game, err := h.gameService.GetGameForEdit(c.Request.Context(), c.Param("game_id"), userID.(uint), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Get game data for edit successfully", game)
}

// bindGameForm parses the multipart create/update payload. The returned
// closer releases the opened upload files and must be called after the
// service is done with them.
func bindGameForm(c *gin.Context) (*services.GameForm, func(), error) {
	mpForm, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid multipart form: %v", err)
	}

	form := &services.GameForm{
		Name: c.PostForm("name"),
	}
	if v, ok := c.GetPostForm("description"); ok {
		form.Description = &v
	}
	if v := c.PostForm("score_per_sentence"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid score_per_sentence: %v", err)
		}
		form.ScorePerSentence = &n
	}
	if v := c.PostForm("is_randomized"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid is_randomized: %v", err)
		}
		form.IsRandomized = &b
	}
	if v := c.PostForm("is_publish_immediately"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid is_publish_immediately: %v", err)
		}
		form.PublishImmediately = b
	}
	if v := c.PostForm("sentences"); v != "" {
		if err := json.Unmarshal([]byte(v), &form.Sentences); err != nil {
			return nil, nil, fmt.Errorf("invalid sentences payload: %v", err)
		}
	}

	var closers []io.Closer
	closeFiles := func() {
		for _, closer := range closers {
			closer.Close()
		}
	}

	openUpload := func(fh *multipart.FileHeader) (*services.Upload, error) {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %v", fh.Filename, err)
		}
		closers = append(closers, file)
		return &services.Upload{Filename: fh.Filename, Content: file}, nil
	}

	if fhs := mpForm.File["thumbnail_image"]; len(fhs) > 0 {
		upload, err := openUpload(fhs[0])
		if err != nil {
			closeFiles()
			return nil, nil, err
		}
		form.Thumbnail = upload
	}
	for _, fh := range mpForm.File["files_to_upload"] {
		upload, err := openUpload(fh)
		if err != nil {
			closeFiles()
			return nil, nil, err
		}
		form.Images = append(form.Images, *upload)
	}

	return form, closeFiles, nil
}
