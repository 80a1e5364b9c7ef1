package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type detectRequest struct {
	CompanionID int    `json:"companion_id" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// detectPersons runs detection and resolution over a piece of text, seeding
// an attitude record for anyone new.
func (h *Handler) detectPersons(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.engine.ProcessTurn(c.Request.Context(), req.CompanionID, h.userName, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentions": result.Mentions})
}

func (h *Handler) listPersons(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Query("companion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid companion id"})
		return
	}
	persons, err := h.directory.List(c.Request.Context(), companionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"persons": persons})
}

func (h *Handler) getPersonByName(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Query("companion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid companion id"})
		return
	}
	pers, err := h.directory.Get(c.Request.Context(), companionID, c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"person": pers})
}
