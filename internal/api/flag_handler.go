package api

import (
	"context"
	"time"

	"flagfeed/internal/dto/resp"
	"flagfeed/internal/metrics"
	"flagfeed/internal/model"
	v1 "flagfeed/pkg/api/v1"

	"github.com/gin-gonic/gin"
)

// SnapshotProvider serves the flag set currently loaded from master data.
type SnapshotProvider interface {
	Snapshot() ([]v1.FeatureRecord, time.Time)
}

// FlagReader reads individual flags straight from the backing store and
// reports whether it is reachable.
type FlagReader interface {
	GetByFlagID(ctx context.Context, flagID string) (*model.FeatureFlag, error)
	PingContext(ctx context.Context) error
}

type FlagHandler struct {
	provider SnapshotProvider
	reader   FlagReader
	observer metrics.RefreshObserver
}

func NewFlagHandler(provider SnapshotProvider, reader FlagReader, observer metrics.RefreshObserver) *FlagHandler {
	return &FlagHandler{
		provider: provider,
		reader:   reader,
		observer: observer,
	}
}

// Snapshot answers GET /v1/flags/snapshot with the complete flag set.
func (h *FlagHandler) Snapshot(c *gin.Context) {
	records, loadedAt := h.provider.Snapshot()
	h.observer.RecordSnapshotServed()

	c.JSON(200, resp.SnapshotResponse{
		Data:      records,
		FetchedAt: loadedAt,
	})
}

// GetFlag answers GET /v1/flags/:id with one flag's master record, read
// fresh from the database rather than the cached snapshot.
func (h *FlagHandler) GetFlag(c *gin.Context) {
	flag, err := h.reader.GetByFlagID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(500, gin.H{"error": "flag lookup failed"})
		return
	}
	if flag == nil {
		c.JSON(404, gin.H{"error": "flag not found"})
		return
	}

	c.JSON(200, v1.FeatureRecord{
		ID:                flag.FlagID,
		ManuallyActivated: flag.ManuallyActivated,
		ReleaseDate:       flag.ReleaseDate,
	})
}

func (h *FlagHandler) HealthCheck(c *gin.Context) {
	if err := h.reader.PingContext(c.Request.Context()); err != nil {
		c.JSON(503, resp.HealthResponse{Status: "degraded"})
		return
	}
	c.JSON(200, resp.HealthResponse{Status: "ok"})
}
