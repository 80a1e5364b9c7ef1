package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/attitude"
	"github.com/easeaico/companion-engine/internal/cache"
	"github.com/easeaico/companion-engine/internal/config"
	"github.com/easeaico/companion-engine/internal/engine"
	"github.com/easeaico/companion-engine/internal/handler"
	"github.com/easeaico/companion-engine/internal/interaction"
	"github.com/easeaico/companion-engine/internal/person"
	"github.com/easeaico/companion-engine/internal/repository"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := repository.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer store.Close()
	if err := store.AutoMigrate(); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	var attitudeCache attitude.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		attitudeCache = cache.New(client, cfg.CacheTTL, log)
		log.WithField("addr", cfg.RedisAddr).Info("attitude cache enabled")
	}

	attitudes := attitude.NewService(store.Attitudes, attitudeCache, log)
	directory := person.NewDirectory(store.Persons, log)
	planner := interaction.NewPlanner(store.Interactions, attitudes, directory, log)
	detector := person.NewDetector()
	eng := engine.New(detector, directory, attitudes, planner, log)

	attitudes.OnChange(func(ch attitude.Change) {
		if ch.OldLabel != ch.NewLabel {
			log.WithFields(logrus.Fields{
				"target_id": ch.Record.TargetID,
				"old":       ch.OldLabel,
				"new":       ch.NewLabel,
				"score":     ch.NewScore,
			}).Info("relationship band changed")
		}
	})

	h := handler.New(eng, attitudes, directory, planner, cfg.UserName, log)
	router := h.Router()

	log.WithField("addr", cfg.HTTPAddr).Info("companion engine listening")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
