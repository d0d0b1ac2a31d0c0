package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/absurdly-visual/client-go/internal/config"
	"github.com/absurdly-visual/client-go/internal/stub"
)

const version = "v0.3.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Absurdly Visual stub server - local stand-in for the game authority

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)

The stub speaks the full game event vocabulary at ws://localhost:PORT/ws,
serves the built-in card decks under /api/cards and an in-memory video feed
under /api/feed (seeded, plus one entry per judged round). It exists so the
terminal client is runnable end to end without the production backend.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("av-stubserver %s\n", version)
		return
	}

	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /ws noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/ws") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Static card lists, same shape as the production /api/cards endpoints.
	r.GET("/api/cards/black", func(c *gin.Context) {
		c.JSON(http.StatusOK, stub.BlackCards())
	})
	r.GET("/api/cards/white", func(c *gin.Context) {
		c.JSON(http.StatusOK, stub.WhiteCards())
	})

	// Feed surface, same routes the production backend exposes; backed by
	// the in-memory feed that judged rounds append to.
	feed := stub.NewFeed()
	r.GET("/api/feed/videos", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		c.JSON(http.StatusOK, feed.Videos(limit, offset))
	})
	r.GET("/api/feed/videos/:id", func(c *gin.Context) {
		if v, ok := feed.Video(c.Param("id")); ok {
			c.JSON(http.StatusOK, v)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"detail": "video not found"})
	})
	r.POST("/api/feed/like", func(c *gin.Context) {
		var body struct {
			VideoID string `json:"video_id"`
			UserID  string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		liked, count, ok := feed.Like(body.VideoID, body.UserID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "video not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "liked": liked, "likes_count": count})
	})
	r.POST("/api/feed/view", func(c *gin.Context) {
		var body struct {
			VideoID string `json:"video_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || !feed.View(body.VideoID) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "video not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.POST("/api/feed/comment", func(c *gin.Context) {
		var body struct {
			VideoID  string `json:"video_id"`
			UserID   string `json:"user_id"`
			UserName string `json:"user_name"`
			Text     string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		comment, ok := feed.AddComment(body.VideoID, body.UserID, body.UserName, body.Text)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "video not found"})
			return
		}
		c.JSON(http.StatusOK, comment)
	})
	r.GET("/api/feed/comments/:id", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		c.JSON(http.StatusOK, feed.Comments(c.Param("id"), limit))
	})
	r.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, feed.Stats())
	})

	srv := stub.NewServer(zerologlog.Logger, feed)
	r.GET("/ws", gin.WrapF(srv.Handle))

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
