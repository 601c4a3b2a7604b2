// Package scheduler runs periodic background tasks on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// TaskFunc is the function signature for scheduled tasks.
type TaskFunc func(ctx context.Context) error

// TaskConfig contains configuration for a scheduled task.
type TaskConfig struct {
	ID          string
	Name        string
	Description string
	Cron        string // "0 3 * * *" for 3 AM daily
	Func        TaskFunc
	RunOnStart  bool
}

// TaskInfo describes a registered task.
type TaskInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cron        string     `json:"cron"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	NextRun     *time.Time `json:"nextRun,omitempty"`
	Running     bool       `json:"running"`
}

type taskEntry struct {
	config    TaskConfig
	job       gocron.Job
	lastRun   *time.Time
	lastError string
	running   bool
}

// Scheduler manages background scheduled tasks. A task never runs twice
// concurrently; a trigger that arrives while it runs is skipped.
type Scheduler struct {
	gocron gocron.Scheduler
	logger zerolog.Logger
	tasks  map[string]*taskEntry
	mu     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler.
func New(logger zerolog.Logger) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		gocron: gs,
		logger: logger.With().Str("component", "scheduler").Logger(),
		tasks:  make(map[string]*taskEntry),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// RegisterTask registers a new scheduled task.
func (s *Scheduler) RegisterTask(config TaskConfig) error {
	if config.Func == nil {
		return fmt.Errorf("task %q has no function", config.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[config.ID]; exists {
		return fmt.Errorf("task with ID %q already registered", config.ID)
	}

	job, err := s.gocron.NewJob(
		gocron.CronJob(config.Cron, false),
		gocron.NewTask(func() { s.executeTask(config.ID) }),
		gocron.WithName(config.Name),
		gocron.WithTags(config.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to create job for task %q: %w", config.ID, err)
	}

	s.tasks[config.ID] = &taskEntry{config: config, job: job}

	s.logger.Info().
		Str("id", config.ID).
		Str("name", config.Name).
		Str("cron", config.Cron).
		Bool("runOnStart", config.RunOnStart).
		Msg("Registered task")

	return nil
}

// claim marks a task running. It reports false when the task is unknown or
// already running.
func (s *Scheduler) claim(taskID string) (*taskEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tasks[taskID]
	if !exists || entry.running {
		return nil, false
	}
	entry.running = true
	return entry, true
}

func (s *Scheduler) executeTask(taskID string) {
	entry, ok := s.claim(taskID)
	if !ok {
		s.logger.Debug().Str("id", taskID).Msg("Task already running, skipping trigger")
		return
	}
	s.runClaimed(entry)
}

func (s *Scheduler) runClaimed(entry *taskEntry) {
	s.wg.Add(1)
	defer s.wg.Done()

	startTime := time.Now()
	s.logger.Info().
		Str("id", entry.config.ID).
		Str("name", entry.config.Name).
		Msg("Starting task")

	err := entry.config.Func(s.ctx)

	s.mu.Lock()
	entry.running = false
	entry.lastRun = &startTime
	entry.lastError = ""
	if err != nil {
		entry.lastError = err.Error()
	}
	s.mu.Unlock()

	duration := time.Since(startTime)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", entry.config.ID).
			Dur("duration", duration).
			Msg("Task failed")
		return
	}
	s.logger.Info().
		Str("id", entry.config.ID).
		Dur("duration", duration).
		Msg("Task completed")
}

// Start starts the scheduler and runs any tasks configured with RunOnStart.
func (s *Scheduler) Start() error {
	s.logger.Info().Msg("Starting scheduler")
	s.gocron.Start()

	s.mu.RLock()
	var startup []string
	for id, entry := range s.tasks {
		if entry.config.RunOnStart {
			startup = append(startup, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range startup {
		go s.executeTask(id)
	}
	return nil
}

// Stop cancels running tasks, waits for them to return and shuts down the
// cron scheduler.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()
	err := s.gocron.Shutdown()
	s.wg.Wait()
	return err
}

// RunNow triggers a task immediately.
func (s *Scheduler) RunNow(taskID string) error {
	s.mu.RLock()
	_, exists := s.tasks[taskID]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("task %q not found", taskID)
	}

	entry, ok := s.claim(taskID)
	if !ok {
		return fmt.Errorf("task %q is already running", taskID)
	}
	go s.runClaimed(entry)
	return nil
}

func (s *Scheduler) info(entry *taskEntry) TaskInfo {
	info := TaskInfo{
		ID:          entry.config.ID,
		Name:        entry.config.Name,
		Description: entry.config.Description,
		Cron:        entry.config.Cron,
		LastRun:     entry.lastRun,
		LastError:   entry.lastError,
		Running:     entry.running,
	}
	if nextRun, err := entry.job.NextRun(); err == nil {
		info.NextRun = &nextRun
	}
	return info
}

// ListTasks returns all registered tasks ordered by ID.
func (s *Scheduler) ListTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]TaskInfo, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, s.info(entry))
	}
	slices.SortFunc(tasks, func(a, b TaskInfo) int { return strings.Compare(a.ID, b.ID) })
	return tasks
}

// GetTask returns information about a specific task.
func (s *Scheduler) GetTask(taskID string) (*TaskInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task %q not found", taskID)
	}
	info := s.info(entry)
	return &info, nil
}
