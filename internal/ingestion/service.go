package ingestion

import (
	"github.com/gin-gonic/gin"
	"github.com/sightline-lab/project-sightline/internal/core/storage"
)

// Service is the upstream write path: it validates one raw session record
// and persists it exactly once. The aggregation and query core never
// depends on this package.
type Service struct {
	store            storage.RecordStore
	maxBodySizeBytes int
}

func NewService(store storage.RecordStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/sessions", s.IngestHandler)
}
