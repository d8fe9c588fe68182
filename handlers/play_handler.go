package handlers

import (
	"net/http"

	"unjumble/services"

	"github.com/gin-gonic/gin"
)

// PlayHandler exposes the player-facing endpoints.
type PlayHandler struct {
	playService *services.PlayService
}

func NewPlayHandler(playService *services.PlayService) *PlayHandler {
	return &PlayHandler{playService: playService}
}

type playCountRequest struct {
	GameID string `json:"game_id" binding:"required"`
}

func (h *PlayHandler) GetPuzzle(c *gin.Context) {
	view, err := h.playService.GetPuzzle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Puzzle retrieved successfully", view)
}

func (h *PlayHandler) GetPlay(c *gin.Context) {
	view, err := h.playService.GetPlay(c.Request.Context(), c.Param("game_id"), true)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Game retrieved successfully", view)
}

func (h *PlayHandler) CheckAnswer(c *gin.Context) {
	var req services.CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.playService.CheckAnswer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) PlayCount(c *gin.Context) {
	var req playCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.playService.IncrementPlayCount(c.Request.Context(), req.GameID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Game play count updated", nil)
}
