package harness

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	quadphys "github.com/0x5844/quadphys"
)

// Server is the read-only diagnostics surface the headless harness exposes
// over HTTP. It never mutates the world outside of what the simulation loop
// itself does — every handler here is a query.
type Server struct {
	world     *quadphys.World
	sessionID uuid.UUID
	stats     *StatsTracker
	log       *zap.Logger

	engine *gin.Engine
	hub    *Hub
}

// NewServer builds the gin engine and route table. sessionID is returned by
// /api/v1/session and logged when the server starts listening, for
// correlation across a run.
func NewServer(world *quadphys.World, sessionID uuid.UUID, stats *StatsTracker, hub *Hub, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{world: world, sessionID: sessionID, stats: stats, log: log, hub: hub}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/session", s.handleSession)
		v1.GET("/bodies/query", s.handleBodyQuery)
		v1.GET("/grid", s.handleGrid)
		v1.GET("/stats", s.handleStats)
		v1.GET("/ws", s.handleWS)
	}

	return s
}

// Run starts the HTTP server on addr and blocks until ctx is canceled, at
// which point it shuts down gracefully. Callers typically run this in an
// errgroup goroutine alongside the simulation loop.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("diagnostics API listening", zap.String("addr", addr), zap.String("session", s.sessionID.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session_id":     s.sessionID.String(),
		"bodies":         s.world.Allocated(),
		"active_bodies":  s.stats.Bodies,
		"step":           s.stats.Step,
	})
}

func (s *Server) handleBodyQuery(c *gin.Context) {
	x, err := strconv.ParseFloat(c.Query("x"), 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid x"})
		return
	}
	y, err := strconv.ParseFloat(c.Query("y"), 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid y"})
		return
	}
	hits := s.world.QueryPoint(quadphys.V(float32(x), float32(y)))
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func (s *Server) handleGrid(c *gin.Context) {
	idStr := c.Query("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	level, gx, gy, side, ok := s.world.GridCellOf(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "body not in grid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"level": level, "gx": gx, "gy": gy, "cell_side": side,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	avg := s.stats.Average()
	c.JSON(http.StatusOK, gin.H{
		"step":                s.stats.Step,
		"bodies":              s.stats.Bodies,
		"collisions":          s.stats.Collisions,
		"avg_integrate_us":    avg.IntegrateUs,
		"avg_broadphase_us":   avg.BroadphaseUs,
		"avg_narrowphase_us":  avg.NarrowphaseUs,
	})
}

func (s *Server) handleWS(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request)
}
