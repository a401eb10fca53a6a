package services

import (
	"context"
	"log"
	"sync"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(s *Submission) bool
}

type worker struct {
	jobQueue    chan *Submission
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once

	// mu orders enqueues against Stop so nothing lands in the queue after the drain.
	mu      sync.RWMutex
	stopped bool
}

func NewWorker(concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &worker{
		jobQueue:    make(chan *Submission, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker. Queued submissions that never ran are failed.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		close(w.stopChan)
		w.wg.Wait()
		w.drain()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It returns false once the worker is stopped or the
// queue is full.
func (w *worker) EnqueueJob(s *Submission) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		log.Printf("⚠️  Worker stopped, cannot enqueue analysis %s\n", s.ID)
		return false
	}

	select {
	case w.jobQueue <- s:
		log.Printf("📥 Analysis %s enqueued\n", s.ID)
		return true
	default:
		log.Printf("⚠️  Queue full, cannot enqueue analysis %s\n", s.ID)
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case s := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing analysis %s\n", workerID, s.ID)
			s.Run(ctx)
		}
	}
}

func (w *worker) drain() {
	for {
		select {
		case s := <-w.jobQueue:
			s.Fail(ErrWorkerStopped)
		default:
			return
		}
	}
}
