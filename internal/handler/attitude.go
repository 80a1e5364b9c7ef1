package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/types"
)

type attitudeKeyQuery struct {
	CompanionID int              `form:"companion_id" binding:"required"`
	TargetID    string           `form:"target_id" binding:"required"`
	TargetType  types.TargetType `form:"target_type" binding:"required"`
}

func (h *Handler) getAttitude(c *gin.Context) {
	var q attitudeKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attitudes.Get(c.Request.Context(), q.CompanionID, q.TargetID, q.TargetType)
	if err != nil {
		fail(c, err)
		return
	}
	label := attitude.Classify(rec.RelationshipScore)
	c.JSON(http.StatusOK, gin.H{
		"attitude":    rec,
		"label":       label,
		"description": attitude.Describe(label),
	})
}

type upsertAttitudeRequest struct {
	CompanionID int                  `json:"companion_id" binding:"required"`
	TargetID    string               `json:"target_id" binding:"required"`
	TargetType  types.TargetType     `json:"target_type" binding:"required"`
	Dimensions  types.AttitudeUpsert `json:"dimensions"`
}

func (h *Handler) upsertAttitude(c *gin.Context) {
	var req upsertAttitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attitudes.Upsert(c.Request.Context(), req.CompanionID, req.TargetID, req.TargetType, &req.Dimensions)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attitude": rec, "label": attitude.Classify(rec.RelationshipScore)})
}

func (h *Handler) listAttitudes(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("companion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid companion id"})
		return
	}
	records, err := h.attitudes.List(c.Request.Context(), companionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attitudes": records})
}

type updateDimensionRequest struct {
	CompanionID int              `json:"companion_id" binding:"required"`
	TargetID    string           `json:"target_id" binding:"required"`
	TargetType  types.TargetType `json:"target_type" binding:"required"`
	Dimension   string           `json:"dimension" binding:"required"`
	Delta       float64          `json:"delta"`
}

func (h *Handler) updateDimension(c *gin.Context) {
	var req updateDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attitudes.UpdateDimension(c.Request.Context(), req.CompanionID, req.TargetID, req.TargetType, req.Dimension, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attitude": rec, "label": attitude.Classify(rec.RelationshipScore)})
}
