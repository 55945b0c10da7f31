package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mkirsch/shipgraph/internal/config"
	"github.com/mkirsch/shipgraph/internal/game"
	"github.com/mkirsch/shipgraph/internal/graph"
	"github.com/mkirsch/shipgraph/internal/store"
	storesqlite "github.com/mkirsch/shipgraph/internal/store/sqlite"
	"github.com/mkirsch/shipgraph/internal/ws"
	staticserver "github.com/mkirsch/shipgraph/static"
)

const version = "v1.1.0"

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
		fmt.Printf(`Shipgraph - who is linked with whom, and can you prove it?

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT             Port to listen on (default: 8080)
  DATABASE_PATH    SQLite database file (default: ./shipgraph.db)
  PUBLIC_URL       Public base URL used in join QR codes (default: http://localhost:8080)
  ADMIN_USER       Moderation interface username for basic auth
  ADMIN_PASS       Moderation interface password for basic auth
  MAX_ATTEMPTS     Default guess budget per game (default: 10)
  EXPORT_ENABLED   Export finished games to file (default: true)
  EXPORT_FILE      Path to export finished games (default: ./shipgraph-results.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Shipgraph %s\n", version)
		return
	}

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	// Determine port
	port := *portFlag
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Config
	cfg := config.FromEnv()

	// Connection store
	db, err := storesqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initial graph snapshot from approved connections
	edges, err := db.ApprovedEdges(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	mgr := game.NewManager(graph.Build(edges))
	zerologlog.Info().Int("edges", len(edges)).Int("people", mgr.Graph().Len()).Msg("graph built")

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
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

	// Socket server + game manager
	sock := ws.New(mgr, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Public API
	r.GET("/api/graph", func(c *gin.Context) {
		g := mgr.Graph()
		c.JSON(http.StatusOK, gin.H{"people": g.People(), "edges": g.Edges()})
	})

	type submitReq struct {
		PersonA     string `json:"personA"`
		PersonB     string `json:"personB"`
		SubmittedBy string `json:"submittedBy"`
	}
	r.POST("/api/connections", func(c *gin.Context) {
		var req submitReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		now := time.Now().UTC()
		conn := store.Connection{
			ID:          uuid.NewString(),
			PersonA:     req.PersonA,
			PersonB:     req.PersonB,
			SubmittedBy: req.SubmittedBy,
			Status:      store.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Submit(c.Request.Context(), conn); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zerologlog.Info().Str("id", conn.ID).Str("personA", req.PersonA).Str("personB", req.PersonB).
			Msg("connection submitted")
		c.JSON(http.StatusCreated, gin.H{"id": conn.ID, "status": conn.Status})
	})

	// Join QR for a running session
	r.GET("/api/session/:code/qr", func(c *gin.Context) {
		code := c.Param("code")
		if _, err := mgr.Get(code); err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		joinURL := strings.TrimRight(cfg.PublicURL, "/") + "/join/" + code
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	// Moderation API (basic auth, mirrors the public one)
	if cfg.AdminUser != "" && cfg.AdminPass != "" {
		auth := gin.BasicAuth(gin.Accounts{cfg.AdminUser: cfg.AdminPass})
		admin := r.Group("/api/admin", auth)

		admin.GET("/connections", func(c *gin.Context) {
			status := store.ModerationStatus(c.DefaultQuery("status", string(store.StatusPending)))
			conns, err := db.ListByStatus(c.Request.Context(), status)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"connections": conns})
		})

		moderate := func(status store.ModerationStatus) gin.HandlerFunc {
			return func(c *gin.Context) {
				id := c.Param("id")
				if err := db.SetStatus(c.Request.Context(), id, status); err != nil {
					if err == store.ErrNotFound {
						c.JSON(http.StatusNotFound, gin.H{"error": "connection_not_found"})
						return
					}
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				// The public graph changed; rebuild wholesale and swap
				edges, err := db.ApprovedEdges(c.Request.Context())
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				mgr.SetGraph(graph.Build(edges))
				zerologlog.Info().Str("id", id).Str("status", string(status)).
					Int("edges", len(edges)).Msg("connection moderated, graph rebuilt")
				c.JSON(http.StatusOK, gin.H{"ok": true})
			}
		}
		admin.POST("/connections/:id/approve", moderate(store.StatusApproved))
		admin.POST("/connections/:id/reject", moderate(store.StatusRejected))
	}

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
