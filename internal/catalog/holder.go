package catalog

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Holder publishes the current Catalog. Readers always observe a complete
// (dataset, mapping) pair; Reload swaps in a new one atomically.
type Holder struct {
	cur    atomic.Pointer[Catalog]
	path   string
	limit  int
	logger zerolog.Logger

	reloadMu sync.Mutex
}

// NewHolder loads path and returns a holder serving it.
func NewHolder(path string, limit int, logger zerolog.Logger) (*Holder, error) {
	h := &Holder{path: path, limit: limit, logger: logger}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// NewStaticHolder serves c and never reloads.
func NewStaticHolder(c *Catalog) *Holder {
	h := &Holder{logger: zerolog.Nop()}
	h.cur.Store(c)
	return h
}

// Current returns the catalog in effect.
func (h *Holder) Current() *Catalog { return h.cur.Load() }

// Path returns the file the holder reloads from.
func (h *Holder) Path() string { return h.path }

// Reload reads the dataset again. On failure the previous catalog stays in
// effect and the error is returned.
func (h *Holder) Reload() error {
	if h.path == "" {
		return errors.New("catalog has no source path")
	}
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	c, err := Load(h.path, h.limit)
	if err != nil {
		return err
	}
	h.cur.Store(c)

	h.logger.Info().
		Str("path", h.path).
		Int("rows", c.Len()).
		Interface("columns", c.Mapping()).
		Msg("Catalog loaded")
	return nil
}
