package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/parisxmas/health-index-server/internal/models"
	"github.com/parisxmas/health-index-server/internal/validation"
)

// SubmissionStore is the persistent collection behind the service.
// Implemented by repository.SubmissionRepo; faked in tests.
type SubmissionStore interface {
	Insert(sub *models.Submission) (string, error)
	FindAll() ([]models.Submission, error)
	FindByID(id string) (*models.Submission, error)
	Replace(id string, sub *models.Submission) error
	Delete(id string) error
}

// NotFoundError reports an unknown submission id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("submission %s not found", e.ID)
}

// SubmissionService owns submission lifecycle and the update-merge contract.
type SubmissionService struct {
	store SubmissionStore

	// Per-id locks serialize the read-merge-validate-write update cycle so
	// concurrent updates to the same id cannot interleave into a record
	// that mixes two different merges.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSubmissionService(store SubmissionStore) *SubmissionService {
	return &SubmissionService{store: store, locks: make(map[string]*sync.Mutex)}
}

// Create validates a raw payload in full, stamps submittedAt, and persists.
func (s *SubmissionService) Create(payload map[string]any) (*models.Submission, error) {
	sub, err := validation.Normalize(payload)
	if err != nil {
		return nil, err
	}
	sub.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	id, err := s.store.Insert(sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	return sub, nil
}

// List returns all submissions, newest first. An empty slice is a valid result.
func (s *SubmissionService) List() ([]models.Submission, error) {
	return s.store.FindAll()
}

func (s *SubmissionService) Get(id string) (*models.Submission, error) {
	sub, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, &NotFoundError{ID: id}
	}
	return sub, nil
}

// Update merges only the keys present in fields onto the stored record,
// validates the merged result, and persists it. A validation failure leaves
// the stored record untouched. The cycle is serialized per id.
func (s *SubmissionService) Update(id string, fields map[string]any) (*models.Submission, error) {
	unlock := s.lock(id)
	defer unlock()

	existing, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{ID: id}
	}

	merged, err := validation.Merge(existing, fields)
	if err != nil {
		return nil, err
	}
	// Identity and creation time are immutable; the merge allow-list already
	// rejects them, carry the stored values over verbatim.
	merged.ID = existing.ID
	merged.SubmittedAt = existing.SubmittedAt

	if err := s.store.Replace(id, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete hard-deletes a submission.
func (s *SubmissionService) Delete(id string) error {
	unlock := s.lock(id)
	defer unlock()

	existing, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{ID: id}
	}
	return s.store.Delete(id)
}

func (s *SubmissionService) lock(id string) func() {
	s.mu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
