package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/google/uuid"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) finished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// Job is an asynchronous conversion.
type Job struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	Kind        string         `json:"kind"`
	Status      JobStatus      `json:"status"`
	Stage       string         `json:"stage,omitempty"`
	Progress    int            `json:"progress"` // 0-100
	Result      *ConvertResult `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	CompletedAt string         `json:"completed_at,omitempty"`

	request *ConvertRequest
	ctx     context.Context
	cancel  context.CancelFunc
}

// JobStore keeps jobs in memory. Accessors return copies.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create registers a pending job for req, bound to parent.
func (s *JobStore) Create(parent context.Context, req *ConvertRequest) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	now := time.Now().UTC().Format(time.RFC3339)
	job := &Job{
		ID:        uuid.New().String(),
		Filename:  req.Filename,
		Kind:      string(req.kind()),
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		request:   req,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.jobs[job.ID] = job
	return *job
}

// Get returns a copy of job id.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Update sets the state of job id. Finished jobs are left unchanged.
func (s *JobStore) Update(id string, status JobStatus, stage string, progress int, result *ConvertResult, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return errors.NewNotFound("job", id)
	}
	if job.Status.finished() {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = status
	job.Stage = stage
	job.Progress = progress
	job.UpdatedAt = now
	if result != nil {
		job.Result = result
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	if status.finished() {
		job.CompletedAt = now
		job.request = nil
		job.cancel()
	}
	return nil
}

// List returns copies of every job, oldest first.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt != jobs[j].CreatedAt {
			return jobs[i].CreatedAt < jobs[j].CreatedAt
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}

// Cancel stops a pending or running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return errors.NewNotFound("job", id)
	}
	if job.Status.finished() {
		return errors.NewValidation("status", "job cannot be cancelled (status: "+string(job.Status)+")")
	}

	job.cancel()
	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = JobStatusCancelled
	job.Error = "job cancelled by user"
	job.UpdatedAt = now
	job.CompletedAt = now
	job.request = nil
	return nil
}

// CancelAll stops every unfinished job.
func (s *JobStore) CancelAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.jobs))
	for id, job := range s.jobs {
		if !job.Status.finished() {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.Cancel(id)
	}
}

// runJob converts in the background, reporting progress to websocket
// clients.
func (s *Server) runJob(job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.metrics.activeJobs.Inc()
		defer s.metrics.activeJobs.Dec()

		notify := func(msgType, stage string, progress int, message string, data map[string]any) {
			s.hub.Broadcast(ProgressMessage{
				Type:     msgType,
				JobID:    job.ID,
				Stage:    stage,
				Progress: progress,
				Message:  message,
				Data:     data,
			})
		}

		progress := func(stage string, pct int) {
			s.jobs.Update(job.ID, JobStatusRunning, stage, pct, nil, "")
			notify("progress", stage, pct, "", nil)
		}
		progress("started", 0)

		result, err := s.convert(job.ctx, job.request, progress)
		switch {
		case job.ctx.Err() != nil:
			s.jobs.Update(job.ID, JobStatusCancelled, "cancelled", 0, nil, "job cancelled")
			notify("error", "cancelled", 0, "job cancelled", nil)
		case err != nil:
			logging.Warn("job failed", "job_id", job.ID, "error", err)
			s.jobs.Update(job.ID, JobStatusFailed, "failed", 100, nil, err.Error())
			notify("error", "failed", 100, err.Error(), nil)
		default:
			s.jobs.Update(job.ID, JobStatusCompleted, "done", 100, result, "")
			notify("complete", "done", 100, "conversion complete", map[string]any{
				"filename": result.Filename,
				"blake3":   result.Hash,
			})
		}
	}()
}

// handleJobs creates a job on POST and lists jobs on GET.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs := s.jobs.List()
		respondList(w, jobs, len(jobs))
	case http.MethodPost:
		req, ok := s.decodeRequest(w, r)
		if !ok {
			return
		}
		job := s.jobs.Create(s.base, req)
		s.runJob(job)
		respond(w, http.StatusAccepted, job)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and POST are allowed")
	}
}

// handleJobByID returns a job on GET and cancels it on DELETE.
func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, ok := s.jobs.Get(id)
		if !ok {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
			return
		}
		respond(w, http.StatusOK, job)
	case http.MethodDelete:
		if err := s.jobs.Cancel(id); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
				return
			}
			respondError(w, http.StatusConflict, "CANCEL_FAILED", err.Error())
			return
		}
		respond(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}
