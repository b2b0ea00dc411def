package service

import (
	"context"
	"sync"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 30 * time.Second

type saveJob struct {
	repo repository.Repository
	data *models.AppData
}

// writer runs dataset saves one at a time, in submission order, on its own
// goroutine. Failures are logged; callers never wait on a save. A save still
// queued for the same repository is replaced by the newer snapshot, so a slow
// store never backs up the callers.
type writer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []saveJob
	busy   bool
	closed bool
	done   chan struct{}
	log    *logrus.Logger
}

func newWriter(log *logrus.Logger) *writer {
	w := &writer{
		done: make(chan struct{}),
		log:  log,
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

func (w *writer) enqueue(repo repository.Repository, data *models.AppData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("Dropping save after shutdown")
		return
	}
	if n := len(w.queue); n > 0 && w.queue[n-1].repo == repo {
		w.queue[n-1].data = data
		w.log.Debug("Queued save superseded by a newer snapshot")
		return
	}
	w.queue = append(w.queue, saveJob{repo: repo, data: data})
	w.cond.Broadcast()
}

func (w *writer) run() {
	defer close(w.done)
	w.mu.Lock()
	for {
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.busy = true
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := job.repo.Save(ctx, job.data); err != nil {
			w.log.Errorf("Failed to save dataset: %v", err)
		}
		cancel()

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
	}
}

// flush waits until every queued save has finished
func (w *writer) flush() {
	w.mu.Lock()
	for len(w.queue) > 0 || w.busy {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// close stops accepting saves and waits for the queue to drain
func (w *writer) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
