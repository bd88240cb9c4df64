package main

import (
	"time"

	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/exam"
	"github.com/liamcoop/neurocds/internal/logger"
	"github.com/liamcoop/neurocds/multicatalog"
	"github.com/liamcoop/neurocds/rules"
)

// API request and response models

// ComputeRequest runs one snapshot through a catalog. An empty catalog
// selects the server default.
type ComputeRequest struct {
	Catalog  string        `json:"catalog,omitempty" example:"full"`
	Snapshot exam.Snapshot `json:"snapshot"`
} // @name ComputeRequest

// ComputeResponse wraps the decision result
type ComputeResponse struct {
	RequestID string          `json:"requestId" example:"123e4567-e89b-12d3-a456-426614174000"`
	Catalog   string          `json:"catalog" example:"full"`
	Result    decision.Result `json:"result"`
} // @name ComputeResponse

// CatalogSummary describes a loaded catalog without its rules
type CatalogSummary struct {
	Name          string    `json:"name" example:"full"`
	Description   string    `json:"description,omitempty"`
	Builtin       bool      `json:"builtin" example:"true"`
	MaxCandidates int       `json:"maxCandidates" example:"12"`
	Diagnoses     int       `json:"diagnoses" example:"25"`
	Tests         int       `json:"tests" example:"19"`
	Guards        int       `json:"guards" example:"15"`
	UpdatedAt     time.Time `json:"updatedAt" example:"2024-01-15T10:30:00Z"`
} // @name CatalogSummary

// CatalogsListResponse represents the response for listing catalogs
type CatalogsListResponse struct {
	Catalogs []CatalogSummary `json:"catalogs"`
} // @name CatalogsListResponse

// StoredCatalogResponse is returned after a catalog is created or updated
type StoredCatalogResponse struct {
	ID        string         `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Active    bool           `json:"active" example:"true"`
	CreatedAt time.Time      `json:"createdAt" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time      `json:"updatedAt" example:"2024-01-15T10:30:00Z"`
	Catalog   *rules.Catalog `json:"catalog"`
} // @name StoredCatalogResponse

// FeatureSchemaResponse lists the names catalog expressions may use
type FeatureSchemaResponse struct {
	Features map[string]string `json:"features"`
} // @name FeatureSchemaResponse

// MetricsResponse exposes the logger counters
type MetricsResponse struct {
	logger.Counters
	CachedPrograms int `json:"cachedPrograms" example:"312"`
} // @name MetricsResponse

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"catalog not found"`
	Details string `json:"details,omitempty"`
} // @name ErrorResponse

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string `json:"status" example:"healthy"`
	CatalogsLoaded int    `json:"catalogsLoaded" example:"2"`
	Storage        string `json:"storage" example:"postgres"`
	Error          string `json:"error,omitempty"`
} // @name HealthResponse

func summarize(ce *multicatalog.CatalogEngine) CatalogSummary {
	c := ce.Engine.Catalog()
	return CatalogSummary{
		Name:          ce.Name,
		Description:   c.Description,
		Builtin:       ce.Builtin,
		MaxCandidates: c.MaxCandidates,
		Diagnoses:     len(c.Diagnoses),
		Tests:         len(c.Tests),
		Guards:        len(c.Guards),
		UpdatedAt:     ce.UpdatedAt,
	}
}

func storedResponse(sc *rules.StoredCatalog) StoredCatalogResponse {
	return StoredCatalogResponse{
		ID:        sc.ID,
		Active:    sc.Active,
		CreatedAt: sc.CreatedAt,
		UpdatedAt: sc.UpdatedAt,
		Catalog:   sc.Catalog,
	}
}
