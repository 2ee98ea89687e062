package retrieval

import "context"

// CodeRepository provides read access to the diagnosis code catalog.
type CodeRepository interface {
	// Search returns codes whose code or display contains the term,
	// case-insensitive, up to limit.
	Search(ctx context.Context, term string, limit int) ([]Code, error)
	// GetByCode returns the exact catalog entry or nil when absent.
	GetByCode(ctx context.Context, code string) (*Code, error)
	// ListByChapters returns codes belonging to any of the chapters.
	ListByChapters(ctx context.Context, chapters []string, limit int) ([]Code, error)
	// List returns the full catalog; used by the fuzzy strategy.
	List(ctx context.Context) ([]Code, error)
}
