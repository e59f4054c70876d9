package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"guilddash/api"
	"guilddash/clients/discord"
	"guilddash/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	setupLogger(cfg.LogLevel)

	discordClient := discord.New(cfg.DiscordAPIBase, cfg.HTTPTimeout)
	server := api.NewServer(discordClient)

	r := gin.Default()
	// The dashboard is served from any origin; the contract pins the
	// allowed headers and methods, so no cors.Default here.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	}))

	r.POST("/api/discord", server.Handle)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s := &http.Server{
		Handler: r,
		Addr:    cfg.ListenAddr,
	}

	slog.Info("Starting HTTP server", "addr", cfg.ListenAddr)
	log.Fatal(s.ListenAndServe())
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
