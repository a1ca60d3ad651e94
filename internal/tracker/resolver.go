package tracker

import (
	"path/filepath"
	"sync"
	"time"

	"ptt/internal/models"
	"ptt/internal/structures"
)

// Resolver derives the fingerprint of the currently open folder and caches
// it for a bounded lifetime. Recomputing the git remote can be slow, so the
// cache is only bypassed after expiry or an explicit Invalidate, fired on
// workspace-folder changes and the post-startup force refresh.
type Resolver struct {
	ws  Workspace
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	cached   models.MatchInfo
	cachedAt time.Time
	valid    bool
}

func NewResolver(conf *structures.Config, ws Workspace) *Resolver {
	return &Resolver{
		ws:  ws,
		ttl: conf.Tracker.FingerprintTTL,
		now: time.Now,
	}
}

// Current returns the fingerprint of the open folder. ok=false means no
// folder is open; tracking is inert, not failed.
func (r *Resolver) Current() (models.MatchInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.valid && now.Sub(r.cachedAt) < r.ttl {
		return r.cached, true
	}

	name, ok := r.ws.FolderName()
	if !ok {
		r.valid = false
		return models.MatchInfo{}, false
	}
	path, ok := r.ws.FolderPath()
	if !ok {
		r.valid = false
		return models.MatchInfo{}, false
	}
	remote, _ := r.ws.GitRemoteURL()

	r.cached = models.MatchInfo{
		GitRemoteURL: remote,
		ParentPath:   filepath.Dir(path),
		FolderName:   name,
	}
	r.cachedAt = now
	r.valid = true
	return r.cached, true
}

// Invalidate drops the cached fingerprint so the next Current recomputes it.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valid = false
}
