package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gosurv/app"
	"gosurv/domain/clinical"
	"gosurv/domain/core"
	"gosurv/domain/survival"
)

// SweepStore is where finished batches go: always the in-memory report
// store, optionally a database repository as well.
type SweepStore interface {
	SaveBatch(ctx context.Context, batch *survival.BatchResult) error
	GetBatch(ctx context.Context, id core.SweepID) (*survival.BatchResult, error)
	ListSweeps(ctx context.Context) ([]survival.SweepSummary, error)
}

// Server exposes the survival engine over HTTP. The patient table is
// loaded once at startup; sweeps are pure computations over it.
type Server struct {
	router   *gin.Engine
	table    *clinical.PatientTable
	sweeps   *app.SweepService
	store    SweepStore
	defaults app.SweepOptions
}

// NewServer wires routes over a loaded patient table. store may be nil,
// which disables sweep retrieval endpoints.
func NewServer(table *clinical.PatientTable, store SweepStore, defaults app.SweepOptions) *Server {
	s := &Server{
		router:   gin.Default(),
		table:    table,
		sweeps:   app.NewSweepService(),
		store:    store,
		defaults: defaults,
	}

	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/markers", s.handleListMarkers)
	v1.GET("/markers/:marker/curves", s.handleMarkerCurves)
	v1.POST("/sweeps", s.handleRunSweep)
	v1.GET("/sweeps", s.handleListSweeps)
	v1.GET("/sweeps/:id", s.handleGetSweep)

	return s
}

// Run starts the HTTP listener.
func (s *Server) Run(port string) error {
	log.Printf("[API] listening on :%s (%d patients loaded)", port, s.table.Len())
	return s.router.Run(":" + port)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "patients": s.table.Len()})
}

func (s *Server) handleListMarkers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"markers": s.table.Markers()})
}

func (s *Server) handleRunSweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	table := s.table
	opts := s.defaults
	if req.Subtype != "" {
		table = table.FilterSubtype(req.Subtype)
		opts.Subtype = req.Subtype
	}
	if req.MinGroupSize > 0 {
		opts.MinGroupSize = req.MinGroupSize
	}

	markers := make([]clinical.MarkerKey, len(req.Markers))
	for i, m := range req.Markers {
		markers[i] = clinical.MarkerKey(m)
	}

	batch, err := s.sweeps.RunSweep(c.Request.Context(), table, markers, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsInvalidInput(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	if s.store != nil {
		if err := s.store.SaveBatch(c.Request.Context(), batch); err != nil {
			// The result is still valid; persistence failure is logged,
			// not surfaced as a request failure.
			log.Printf("[API] failed to persist sweep %s: %v", batch.SweepID, err)
		}
	}

	c.JSON(http.StatusOK, SweepResponse{Result: batch, PValues: batch.PValues()})
}

func (s *Server) handleListSweeps(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "sweep storage not configured"})
		return
	}

	summaries, err := s.store.ListSweeps(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sweeps": summaries})
}

func (s *Server) handleGetSweep(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "sweep storage not configured"})
		return
	}

	id, err := core.ParseSweepID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	batch, err := s.store.GetBatch(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SweepResponse{Result: batch, PValues: batch.PValues()})
}

// handleMarkerCurves serves the plotting payload: both curves plus
// descriptive summaries for one marker.
func (s *Server) handleMarkerCurves(c *gin.Context) {
	table := s.table
	if subtype := c.Query("subtype"); subtype != "" {
		table = table.FilterSubtype(subtype)
	}

	detail, err := s.sweeps.DescribeMarker(table, clinical.MarkerKey(c.Param("marker")), nil)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsMarkerNotFound(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}
