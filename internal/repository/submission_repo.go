package repository

import (
	"encoding/json"
	"fmt"

	"github.com/parisxmas/OxiDB/go/oxidb"

	"github.com/parisxmas/health-index-server/internal/db"
	"github.com/parisxmas/health-index-server/internal/models"
)

const SubmissionsCollection = "hi_submissions"

// SubmissionRepo persists health index submissions in an OxiDB collection.
type SubmissionRepo struct {
	pool *db.Pool
}

func NewSubmissionRepo(pool *db.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// EnsureIndexes creates the submittedAt index backing the list sort.
func (r *SubmissionRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateIndex(SubmissionsCollection, "submittedAt"); err != nil {
		return &StoreError{Op: "create index", Err: err}
	}
	return nil
}

// Insert persists a new submission and returns the store-assigned id.
func (r *SubmissionRepo) Insert(sub *models.Submission) (string, error) {
	c := r.pool.Get()
	result, err := c.Insert(SubmissionsCollection, submissionToDoc(sub))
	if err != nil {
		return "", &StoreError{Op: "insert", Err: err}
	}
	return extractID(result), nil
}

// FindAll returns every submission, newest first.
func (r *SubmissionRepo) FindAll() ([]models.Submission, error) {
	c := r.pool.Get()
	docs, err := c.Find(SubmissionsCollection, map[string]any{}, &oxidb.FindOptions{
		Sort: map[string]any{"submittedAt": -1},
	})
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s, err := docToSubmission(d)
		if err != nil {
			continue
		}
		subs = append(subs, *s)
	}
	return subs, nil
}

// FindByID returns (nil, nil) when no record has the given id.
func (r *SubmissionRepo) FindByID(id string) (*models.Submission, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(SubmissionsCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, &StoreError{Op: "find one", Err: err}
	}
	if doc == nil {
		return nil, nil
	}
	return docToSubmission(doc)
}

// Replace overwrites the stored record with the full merged submission.
func (r *SubmissionRepo) Replace(id string, sub *models.Submission) error {
	c := r.pool.Get()
	_, err := c.UpdateOne(SubmissionsCollection, map[string]any{"_id": toNumericID(id)}, map[string]any{"$set": submissionToDoc(sub)})
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// Delete hard-deletes a submission.
func (r *SubmissionRepo) Delete(id string) error {
	c := r.pool.Get()
	_, err := c.DeleteOne(SubmissionsCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

func submissionToDoc(s *models.Submission) map[string]any {
	data, _ := json.Marshal(s)
	var doc map[string]any
	json.Unmarshal(data, &doc)
	delete(doc, "_id")
	return doc
}

func docToSubmission(doc map[string]any) (*models.Submission, error) {
	normalizeID(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal submission doc: %w", err)
	}
	var s models.Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return &s, nil
}
