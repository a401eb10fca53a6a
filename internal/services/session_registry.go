package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// SessionRegistry keeps one FormController per browser session, in memory only.
type SessionRegistry interface {
	GetOrCreate(sessionID string, picker FilePicker) *FormController
	Get(sessionID string) (*FormController, bool)
	Delete(sessionID string)
	Sweep(now time.Time) int
	Len() int
	Start(ctx context.Context)
	Stop()
}

type sessionEntry struct {
	controller *FormController
	lastSeen   time.Time
}

type sessionRegistry struct {
	mu            sync.Mutex
	sessions      map[string]*sessionEntry
	analyzer      AnalyzerClient
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

func NewSessionRegistry(analyzerClient AnalyzerClient, ttl, sweepInterval time.Duration) SessionRegistry {
	return &sessionRegistry{
		sessions:      make(map[string]*sessionEntry),
		analyzer:      analyzerClient,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
}

// GetOrCreate returns the session's controller, creating a fresh one on first use.
func (r *sessionRegistry) GetOrCreate(sessionID string, picker FilePicker) *FormController {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{controller: NewFormController(r.analyzer, picker)}
		r.sessions[sessionID] = entry
		log.Printf("🆕 Session %s created\n", sessionID)
	}
	entry.lastSeen = r.now()

	return entry.controller
}

func (r *sessionRegistry) Get(sessionID string) (*FormController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.controller, true
}

func (r *sessionRegistry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Sweep drops sessions idle for longer than the TTL. Sessions still loading are kept.
func (r *sessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if now.Sub(entry.lastSeen) <= r.ttl {
			continue
		}
		if entry.controller.State().IsLoading {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

func (r *sessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start launches the janitor that expires idle sessions.
func (r *sessionRegistry) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.sweepExpired(ctx)
}

func (r *sessionRegistry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

func (r *sessionRegistry) sweepExpired(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting session janitor")

	for {
		select {
		case <-r.stopChan:
			log.Println("🔄 Session janitor stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(r.now()); removed > 0 {
				log.Printf("🧹 Expired %d idle sessions\n", removed)
			}
		}
	}
}
