package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/easeaico/companion-engine/internal/types"
)

type planRequest struct {
	CompanionID     int    `json:"companion_id" binding:"required"`
	PersonID        string `json:"person_id" binding:"required"`
	InteractionType string `json:"interaction_type" binding:"required"`
	Description     string `json:"description"`
	PlannedDate     string `json:"planned_date"`
}

func (h *Handler) planInteraction(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.planner.Plan(c.Request.Context(), req.CompanionID, req.PersonID, req.InteractionType, req.Description, req.PlannedDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interaction": it})
}

// completeInteraction finishes a planned interaction. Completing one that is
// already completed returns 200 with the existing record and applies nothing.
func (h *Handler) completeInteraction(c *gin.Context) {
	it, err := h.planner.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, types.ErrConflict) && it != nil {
			c.JSON(http.StatusOK, gin.H{"interaction": it, "already_completed": true})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interaction": it})
}

func (h *Handler) plannedInteractions(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("companion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid companion id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	items, err := h.planner.Planned(c.Request.Context(), companionID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": items})
}

func (h *Handler) interactionHistory(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("companion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid companion id"})
		return
	}
	items, err := h.planner.History(c.Request.Context(), companionID, c.Param("person_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": items})
}

type turnRequest struct {
	CompanionID int    `json:"companion_id" binding:"required"`
	UserName    string `json:"user_name"`
	Text        string `json:"text" binding:"required"`
}

// processTurn runs the full per-message pipeline.
func (h *Handler) processTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userName := req.UserName
	if userName == "" {
		userName = h.userName
	}
	result, err := h.engine.ProcessTurn(c.Request.Context(), req.CompanionID, userName, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
