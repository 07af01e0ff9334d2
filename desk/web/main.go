package main

import (
	"encoding/base64"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	store "jget.app/jget/core"
	v1 "jget.app/jget/crm/v1"
	desk "jget.app/jget/desk/core"
	"jget.app/jget/desk/web/handlers/shift"
	"jget.app/jget/infrastructure/devops"
	"jget.app/jget/web/middlewares"
)

func main() {
	cfg, err := devops.LoadConfiguration()
	if err != nil {
		log.Fatal(err)
	}

	mirror, err := store.New(cfg.MirrorPath, store.LogLevelSilent)
	if err != nil {
		log.Fatal(err)
	}
	defer mirror.Close()

	client := v1.NewCrmClient(v1.Session{
		BaseURL:   cfg.Crm.BaseURL,
		CSRFToken: cfg.Crm.CSRFToken,
		SessionID: cfg.Crm.SessionID,
		Timeout:   cfg.Timeout(),
	})
	d := desk.NewDesk(client, mirror, mirror)

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.SigningSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		shift.Register(protected, d, mirror)
	}

	log.Printf("desk listening on %s, upstream %s", cfg.Listen, cfg.Crm.BaseURL)
	r.Run(cfg.Listen)
}
