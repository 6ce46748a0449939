package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/usecase"
)

// Runner is the slice of the pipeline the HTTP surface drives.
type Runner interface {
	Start(ctx context.Context) error
	Snapshot() usecase.Snapshot
}

var _ Runner = (*usecase.Pipeline)(nil)

// Server exposes the status and trigger endpoints over gin.
type Server struct {
	runner Runner
	logger *slog.Logger
}

// NewServer wires the pipeline behind the HTTP surface.
func NewServer(runner Runner, logger *slog.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.POST("/api/generate", s.handleGenerate)
	r.GET("/api/status", s.handleStatus)
	r.GET("/api/newsletter", s.handleNewsletter)

	return r
}

// Serve blocks running the HTTP listener until it fails or the context
// is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if s.logger != nil {
		s.logger.Info("http server listening", "addr", addr)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Tax Newsletter API is running",
		"status":  "healthy",
		"endpoints": gin.H{
			"generate":   "/api/generate",
			"newsletter": "/api/newsletter",
			"status":     "/api/status",
		},
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	err := s.runner.Start(c.Request.Context())
	switch {
	case errors.Is(err, usecase.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"message": "Newsletter is already being processed",
			"status":  string(domain.StatusProcessing),
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to start newsletter generation",
			"status":  string(domain.StatusError),
			"error":   err.Error(),
		})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Newsletter generation started",
			"status":  "started",
		})
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	snap := s.runner.Snapshot()

	var lastUpdated any
	if !snap.LastUpdated.IsZero() {
		lastUpdated = snap.LastUpdated.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       string(snap.Status),
		"last_updated": lastUpdated,
		"item_count":   snap.ItemCount,
	})
}

// newsletterItem is the wire projection of one processed item. Number
// carries the reference for circulars and notifications, Title for
// press releases.
type newsletterItem struct {
	Type    string `json:"type"`
	Number  string `json:"number,omitempty"`
	Title   string `json:"title,omitempty"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	PDFURL  string `json:"pdf_url,omitempty"`
}

func (s *Server) handleNewsletter(c *gin.Context) {
	snap := s.runner.Snapshot()

	switch snap.Status {
	case domain.StatusNotGenerated:
		c.JSON(http.StatusOK, gin.H{
			"message": "Newsletter not generated yet. Call POST /api/generate first.",
			"status":  string(domain.StatusNotGenerated),
		})
		return
	case domain.StatusProcessing:
		c.JSON(http.StatusOK, gin.H{
			"message": "Newsletter is being processed. Check /api/status for updates.",
			"status":  string(domain.StatusProcessing),
		})
		return
	case domain.StatusError:
		c.JSON(http.StatusOK, gin.H{
			"message": "Error generating newsletter",
			"status":  string(domain.StatusError),
			"error":   snap.Err,
		})
		return
	}

	body := gin.H{
		"status":       "success",
		"last_updated": snap.LastUpdated.Format(time.RFC3339),
		"item_count":   snap.ItemCount,
		"newsletter": gin.H{
			"circulars":      projectItems(snap.Draft, domain.CategoryCircular),
			"notifications":  projectItems(snap.Draft, domain.CategoryNotification),
			"press_releases": projectItems(snap.Draft, domain.CategoryPressRelease),
		},
	}
	if snap.Draft.Empty() {
		body["message"] = "No new items since the last run"
	}

	c.JSON(http.StatusOK, body)
}

func projectItems(draft domain.NewsletterDraft, cat domain.Category) []newsletterItem {
	items := draft.ByCategory(cat)
	out := make([]newsletterItem, 0, len(items))
	for _, item := range items {
		wire := newsletterItem{
			Type:    itemType(cat),
			Date:    item.Date,
			Summary: item.Summary,
			PDFURL:  item.PDFURL,
		}
		if cat == domain.CategoryPressRelease {
			wire.Title = item.Reference
		} else {
			wire.Number = item.Reference
		}
		out = append(out, wire)
	}
	return out
}

func itemType(cat domain.Category) string {
	switch cat {
	case domain.CategoryCircular:
		return "Circular"
	case domain.CategoryNotification:
		return "Notification"
	case domain.CategoryPressRelease:
		return "Press Release"
	default:
		return string(cat)
	}
}
