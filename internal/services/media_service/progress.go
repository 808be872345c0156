package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type UploadState string

const (
	UploadStateIdle      UploadState = "idle"
	UploadStateUploading UploadState = "uploading"
	UploadStateDone      UploadState = "done"
)

// UploadProgress is the pollable snapshot of one batch: how many files are
// done, the running percentage and the file currently in flight.
type UploadProgress struct {
	State       UploadState `json:"state"`
	Current     int         `json:"current"`
	Total       int         `json:"total"`
	Percentage  int         `json:"percentage"`
	CurrentFile string      `json:"current_file,omitempty"`
}

// ProgressTracker keeps per-batch upload progress in a TTL'd in-memory cache
// so an abandoned batch disappears on its own.
type ProgressTracker struct {
	c *cache.Cache
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		c: cache.New(30*time.Minute, 10*time.Minute),
	}
}

func (t *ProgressTracker) Begin(batchID string, total int) {
	t.c.Set(batchID, UploadProgress{
		State: UploadStateUploading,
		Total: total,
	}, cache.DefaultExpiration)
}

func (t *ProgressTracker) SetCurrentFile(batchID, filename string) {
	p, ok := t.get(batchID)
	if !ok {
		return
	}
	p.CurrentFile = filename
	t.c.Set(batchID, p, cache.DefaultExpiration)
}

// Advance records one completed file and recomputes the percentage.
func (t *ProgressTracker) Advance(batchID string) {
	p, ok := t.get(batchID)
	if !ok {
		return
	}
	p.Current++
	if p.Total > 0 {
		p.Percentage = p.Current * 100 / p.Total
	}
	t.c.Set(batchID, p, cache.DefaultExpiration)
}

// Reset returns a failed batch to idle; the progress indicator disappears.
func (t *ProgressTracker) Reset(batchID string) {
	t.c.Delete(batchID)
}

// Finish marks the batch complete; the entry lingers briefly so a final poll
// still sees 100%.
func (t *ProgressTracker) Finish(batchID string) {
	p, ok := t.get(batchID)
	if !ok {
		return
	}
	p.State = UploadStateDone
	p.CurrentFile = ""
	t.c.Set(batchID, p, time.Minute)
}

// Get returns the snapshot for a batch; unknown batches read as idle.
func (t *ProgressTracker) Get(batchID string) UploadProgress {
	p, ok := t.get(batchID)
	if !ok {
		return UploadProgress{State: UploadStateIdle}
	}
	return p
}

func (t *ProgressTracker) get(batchID string) (UploadProgress, bool) {
	v, ok := t.c.Get(batchID)
	if !ok {
		return UploadProgress{}, false
	}
	p, ok := v.(UploadProgress)
	return p, ok
}
