// Package handler exposes the engine over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/engine"
	"github.com/easeaico/companion-engine/internal/interaction"
	"github.com/easeaico/companion-engine/internal/person"
	"github.com/easeaico/companion-engine/internal/types"
)

// Handler bundles the engine services behind gin routes.
type Handler struct {
	engine    *engine.Engine
	attitudes *attitude.Service
	directory *person.Directory
	planner   *interaction.Planner
	userName  string
	log       *logrus.Logger
}

// New returns a handler.
func New(eng *engine.Engine, attitudes *attitude.Service, directory *person.Directory, planner *interaction.Planner, userName string, log *logrus.Logger) *Handler {
	return &Handler{
		engine:    eng,
		attitudes: attitudes,
		directory: directory,
		planner:   planner,
		userName:  userName,
		log:       log,
	}
}

// Router builds the API route table.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/attitudes", h.getAttitude)
		api.POST("/attitudes", h.upsertAttitude)
		api.GET("/attitudes/companion/:companion_id", h.listAttitudes)
		api.POST("/attitudes/dimension", h.updateDimension)

		api.POST("/persons/detect", h.detectPersons)
		api.GET("/persons", h.listPersons)
		api.GET("/persons/name/:name", h.getPersonByName)

		api.POST("/interactions/plan", h.planInteraction)
		api.POST("/interactions/:id/complete", h.completeInteraction)
		api.GET("/interactions/planned/:companion_id", h.plannedInteractions)
		api.GET("/interactions/history/:companion_id/:person_id", h.interactionHistory)

		api.POST("/turn", h.processTurn)
	}
	return r
}

// fail maps engine errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrInvalidDimension):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
