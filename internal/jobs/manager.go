package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"instalytics/pkg/logger"
	"instalytics/pkg/scraper"
	"instalytics/pkg/storage"
)

// Status is the lifecycle state of a scrape job
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ErrQueueFull is returned when the job queue cannot accept more work
var ErrQueueFull = errors.New("job queue is full")

// Job tracks one background scrape from submission to completion
type Job struct {
	ID         string           `json:"id"`
	Username   string           `json:"username"`
	Status     Status           `json:"status"`
	Error      string           `json:"error,omitempty"`
	Run        *storage.RunInfo `json:"run,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  time.Time        `json:"started_at,omitempty"`
	FinishedAt time.Time        `json:"finished_at,omitempty"`
}

// Runner executes one scrape; satisfied by *scraper.Scraper
type Runner interface {
	Run(ctx context.Context, opts scraper.Options) (*scraper.Result, error)
}

type queued struct {
	id   string
	opts scraper.Options
}

// Manager runs scrape jobs on a fixed pool of workers and tracks their state
type Manager struct {
	runner  Runner
	jobs    map[string]*Job
	queue   chan queued
	workers int
	mu      sync.RWMutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewManager creates a job manager with the given worker count
func NewManager(runner Runner, workers int, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		runner:  runner,
		jobs:    make(map[string]*Job),
		queue:   make(chan queued, workers*4),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
		logger:  log,
	}
}

// Start launches the workers
func (m *Manager) Start() {
	m.logger.InfoWithFields("starting job workers", map[string]interface{}{
		"workers": m.workers,
	})

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
}

// Stop cancels running jobs and waits for the workers to exit
func (m *Manager) Stop() {
	m.cancel()
	close(m.queue)
	m.wg.Wait()
	m.logger.Info("job workers stopped")
}

// Submit enqueues a scrape and returns the queued job
func (m *Manager) Submit(opts scraper.Options) (*Job, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Username:  opts.Username,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	select {
	case m.queue <- queued{id: job.ID, opts: opts}:
	default:
		m.mu.Lock()
		delete(m.jobs, job.ID)
		m.mu.Unlock()
		return nil, ErrQueueFull
	}

	m.logger.InfoWithFields("scrape job queued", map[string]interface{}{
		"job_id":   job.ID,
		"username": opts.Username,
	})

	out := *job
	return &out, nil
}

// Get returns a copy of a job by ID
func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	out := *job
	return &out, true
}

// List returns copies of all jobs, newest first
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		copied := *job
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *Manager) worker() {
	defer m.wg.Done()

	for q := range m.queue {
		select {
		case <-m.ctx.Done():
			m.setFailed(q.id, context.Canceled.Error())
			continue
		default:
		}

		m.setRunning(q.id)

		result, err := m.runner.Run(m.ctx, q.opts)
		if err != nil {
			m.logger.ErrorWithFields("scrape job failed", map[string]interface{}{
				"job_id": q.id,
				"error":  err.Error(),
			})
			m.setFailed(q.id, err.Error())
			continue
		}

		m.setDone(q.id, result.Run)
	}
}

func (m *Manager) setRunning(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = StatusRunning
		job.StartedAt = time.Now().UTC()
	}
}

func (m *Manager) setFailed(id, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = StatusFailed
		job.Error = msg
		job.FinishedAt = time.Now().UTC()
	}
}

func (m *Manager) setDone(id string, run *storage.RunInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = StatusDone
		job.Run = run
		job.FinishedAt = time.Now().UTC()
	}
}
