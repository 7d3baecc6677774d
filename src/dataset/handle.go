package dataset

import (
	"sync/atomic"

	"stock-board/src/models"
)

// -----------------------------------------------------------------------------

// Handle is the published dataset for one market. Readers always see either
// the empty dataset the handle started with or a fully built one.
type Handle struct {
	market    models.Market
	current   atomic.Pointer[Dataset]
	published atomic.Bool
}

// NewHandle starts with an empty dataset so queries degrade to empty results
// until the first Publish.
func NewHandle(market models.Market) *Handle {
	h := &Handle{market: market}
	h.current.Store(Empty(market))
	return h
}

// -----------------------------------------------------------------------------

func (h *Handle) Market() models.Market { return h.market }

// Get returns the current dataset. Never nil.
func (h *Handle) Get() *Dataset {
	return h.current.Load()
}

// Publish swaps in a completely loaded dataset.
func (h *Handle) Publish(ds *Dataset) {
	if ds == nil {
		ds = Empty(h.market)
	}
	h.current.Store(ds)
	h.published.Store(true)
}

// Published reports whether a load has finished, even one that produced no
// rows.
func (h *Handle) Published() bool {
	return h.published.Load()
}

// Loaded reports whether the current dataset holds any rows.
func (h *Handle) Loaded() bool {
	return !h.Get().IsEmpty()
}

// Status describes the handle for websocket pushes.
func (h *Handle) Status(kind string) models.MDatasetStatus {
	ds := h.Get()
	st := models.MDatasetStatus{
		Type:   kind,
		Market: h.market,
		Loaded: !ds.IsEmpty(),
		Rows:   ds.Len(),
	}
	if first, last, ok := ds.Bounds(); ok {
		st.MinDate = first.Format(models.DateLayout)
		st.MaxDate = last.Format(models.DateLayout)
	}
	return st
}
