package retrieval

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory catalog used when no database is configured and
// in tests. Reads are lock-free after construction except for Replace.
type MemoryRepo struct {
	mu    sync.RWMutex
	codes []Code
	index map[string]int
}

// NewMemoryRepo builds a repository over the given catalog.
func NewMemoryRepo(codes []Code) *MemoryRepo {
	r := &MemoryRepo{}
	r.Replace(codes)
	return r
}

// Replace swaps the catalog contents.
func (r *MemoryRepo) Replace(codes []Code) {
	idx := make(map[string]int, len(codes))
	for i, c := range codes {
		idx[strings.ToUpper(c.Code)] = i
	}
	r.mu.Lock()
	r.codes = codes
	r.index = idx
	r.mu.Unlock()
}

func (r *MemoryRepo) Search(ctx context.Context, term string, limit int) ([]Code, error) {
	term = strings.ToLower(term)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Code
	for _, c := range r.codes {
		if strings.Contains(strings.ToLower(c.Code), term) ||
			strings.Contains(strings.ToLower(c.Display), term) {
			out = append(out, c)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryRepo) GetByCode(ctx context.Context, code string) (*Code, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[strings.ToUpper(code)]; ok {
		c := r.codes[i]
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryRepo) ListByChapters(ctx context.Context, chapters []string, limit int) ([]Code, error) {
	want := make(map[string]bool, len(chapters))
	for _, ch := range chapters {
		want[ch] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Code
	for _, c := range r.codes {
		if want[c.Chapter] {
			out = append(out, c)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Code, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Code, len(r.codes))
	copy(out, r.codes)
	return out, nil
}
