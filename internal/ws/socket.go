package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/mkirsch/shipgraph/internal/config"
	"github.com/mkirsch/shipgraph/internal/game"
)

type ConnCtx struct {
	Code  string
	Token string
}

type Server struct {
	Mgr *game.Manager

	// members maps sessionCode -> socketID -> Conn. Socket.IO runs
	// handlers on per-connection goroutines, so access goes through mu.
	mu      sync.Mutex
	members map[string]map[string]socketio.Conn
	config  config.Config
}

func New(mgr *game.Manager, cfg config.Config) *Server {
	return &Server{Mgr: mgr, members: make(map[string]map[string]socketio.Conn), config: cfg}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:start - create a session and generate a puzzle
	io.OnEvent("/", "game:start", func(s socketio.Conn, payload struct {
		Settings game.Settings `json:"settings"`
	}) map[string]any {
		settings := payload.Settings
		if settings.MaxAttempts <= 0 {
			settings.MaxAttempts = srv.config.MaxAttempts
		}
		sess, err := srv.Mgr.CreateSession(settings)
		if err != nil {
			return srv.err(s, "internal", err.Error())
		}
		puzzle, err := sess.Start()
		if errors.Is(err, game.ErrInsufficientData) {
			return srv.err(s, "insufficient_data", "Not enough people in the network to start a game")
		}
		if err != nil {
			return srv.err(s, "internal", err.Error())
		}
		if puzzle.Degraded {
			log.Warn().Str("code", sess.Code).Str("start", puzzle.Start).Str("target", puzzle.Target).
				Msg("puzzle generation degraded to fallback pair")
		}
		s.SetContext(&ConnCtx{Code: sess.Code, Token: sess.PlayerToken})
		s.Join(sess.Code)
		srv.addMember(sess.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).
			Str("start", puzzle.Start).Str("target", puzzle.Target).Msg("game:start")
		srv.emitStateTo(sess.Code)
		return map[string]any{
			"sessionCode": sess.Code,
			"playerToken": sess.PlayerToken,
			"start":       puzzle.Start,
			"target":      puzzle.Target,
			"maxAttempts": sess.Settings.MaxAttempts,
		}
	})

	// game:resume (reconnection)
	io.OnEvent("/", "game:resume", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Token       string `json:"token"`
	}) map[string]any {
		sess, err := srv.Mgr.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		if payload.Token != sess.PlayerToken {
			return srv.err(s, "unauthorized", "Invalid player token")
		}
		s.SetContext(&ConnCtx{Code: payload.SessionCode, Token: payload.Token})
		s.Join(payload.SessionCode)
		srv.addMember(payload.SessionCode, s)
		log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Msg("game:resume")
		s.Emit("game:state", sess.State())
		return map[string]any{"ok": true}
	})

	// game:guess
	io.OnEvent("/", "game:guess", func(s socketio.Conn, payload struct {
		Name string `json:"name"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Mgr.Get(ctx.Code)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		result, err := sess.Guess(payload.Name)
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("code", ctx.Code).Str("name", payload.Name).
			Str("outcome", string(result.Outcome)).Str("status", string(result.Status)).
			Int("attempts", result.Attempts).Msg("game:guess")
		srv.emitStateTo(ctx.Code)
		if result.Status.Terminal() && srv.config.ExportEnabled {
			if exportErr := game.ExportSession(sess, srv.config.ExportFile); exportErr != nil {
				log.Error().Err(exportErr).Str("code", ctx.Code).Msg("failed to export game result")
			} else {
				log.Info().Str("code", ctx.Code).Str("file", srv.config.ExportFile).Msg("exported game result")
			}
		}
		return map[string]any{"result": result}
	})

	// game:hint
	io.OnEvent("/", "game:hint", func(s socketio.Conn) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Mgr.Get(ctx.Code)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		hint, err := sess.Hint()
		if errors.Is(err, game.ErrNoHint) {
			return srv.err(s, "no_hint", "No hint available")
		}
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("code", ctx.Code).Msg("game:hint")
		return map[string]any{"hint": hint}
	})

	// game:giveup
	io.OnEvent("/", "game:giveup", func(s socketio.Conn) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Mgr.Get(ctx.Code)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		if err := sess.Forfeit(); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("code", ctx.Code).Msg("game:giveup")
		srv.emitStateTo(ctx.Code)
		if srv.config.ExportEnabled {
			if exportErr := game.ExportSession(sess, srv.config.ExportFile); exportErr != nil {
				log.Error().Err(exportErr).Str("code", ctx.Code).Msg("failed to export game result")
			}
		}
		return map[string]any{"ok": true}
	})

	// game:restart - new puzzle on the same session
	io.OnEvent("/", "game:restart", func(s socketio.Conn) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Mgr.Get(ctx.Code)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		puzzle, err := sess.Start()
		if errors.Is(err, game.ErrInsufficientData) {
			return srv.err(s, "insufficient_data", "Not enough people in the network to start a game")
		}
		if err != nil {
			return srv.err(s, "internal", err.Error())
		}
		log.Info().Str("code", ctx.Code).Msg("game:restart")
		srv.emitStateTo(ctx.Code)
		return map[string]any{"start": puzzle.Start, "target": puzzle.Target}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok {
			if ctx.Code != "" {
				srv.removeMember(ctx.Code, s)
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
	}
}

func (srv *Server) emitStateTo(code string) {
	sess, err := srv.Mgr.Get(code)
	if err != nil {
		return
	}
	state := sess.State()

	srv.mu.Lock()
	conns := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		conns = append(conns, c)
	}
	srv.mu.Unlock()

	for _, c := range conns {
		c.Emit("game:state", state)
	}
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
