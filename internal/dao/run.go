package dao

import (
	"encoding/json"
	"time"

	"github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/search"
	"github.com/vigenere-search/internal/storage"
)

// Run summarises one invocation of the scanner
type Run struct {
	ID         string          `json:"id"`
	TextID     string          `json:"text_id"`
	Range      search.Range    `json:"range"`
	Results    []search.Result `json:"results"`
	Checked    uint64          `json:"checked"`
	Candidates uint64          `json:"candidates"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Cancelled  bool            `json:"cancelled"`
}

// RunDAO persists run summaries
type RunDAO struct {
	store *storage.Store
}

// NewRunDAO creates a new run DAO
func NewRunDAO(store *storage.Store) *RunDAO {
	return &RunDAO{store: store}
}

// Save stores a run summary
func (d *RunDAO) Save(run *Run) error {
	if err := d.store.SetJSON(storage.BucketRuns, []byte(run.ID), run); err != nil {
		return errors.NewStorageErrorWithCause("failed to save run", err)
	}
	return nil
}

// List returns all stored runs
func (d *RunDAO) List() ([]Run, error) {
	runs := []Run{}
	err := d.store.ForEach(storage.BucketRuns, func(k, v []byte) error {
		var run Run
		if err := json.Unmarshal(v, &run); err != nil {
			return err
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, errors.NewStorageErrorWithCause("failed to list runs", err)
	}
	return runs, nil
}
