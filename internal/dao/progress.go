package dao

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/search"
	"github.com/vigenere-search/internal/storage"
)

// Checkpoint records how far a range of a ciphertext has been scanned
type Checkpoint struct {
	TextID     string       `json:"text_id"`
	Range      search.Range `json:"range"`
	Last       uint64       `json:"last"`
	Checked    uint64       `json:"checked"`
	Candidates uint64       `json:"candidates"`
	Done       bool         `json:"done"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Remaining returns the part of the range still to scan, false when done
func (c *Checkpoint) Remaining() (search.Range, bool) {
	if c.Done || c.Last >= c.Range.End {
		return search.Range{}, false
	}
	if c.Checked == 0 {
		return c.Range, true
	}
	return search.Range{Start: c.Last + 1, End: c.Range.End}, true
}

// TextID fingerprints a ciphertext so checkpoints of different texts never collide
func TextID(text []byte) string {
	sum := sha256.Sum256(text)
	return hex.EncodeToString(sum[:8])
}

// ProgressDAO persists scan checkpoints
type ProgressDAO struct {
	store *storage.Store
}

// NewProgressDAO creates a new progress DAO
func NewProgressDAO(store *storage.Store) *ProgressDAO {
	return &ProgressDAO{store: store}
}

func checkpointKey(textID string, r search.Range) []byte {
	return []byte(textID + "/" + r.String())
}

// Load returns the checkpoint for a range of a text, false when none exists
func (d *ProgressDAO) Load(textID string, r search.Range) (*Checkpoint, bool, error) {
	var cp Checkpoint
	ok, err := d.store.GetJSON(storage.BucketProgress, checkpointKey(textID, r), &cp)
	if err != nil {
		return nil, false, errors.NewStorageErrorWithCause("failed to load checkpoint", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &cp, true, nil
}

// Save stores a checkpoint
func (d *ProgressDAO) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()
	if err := d.store.SetJSON(storage.BucketProgress, checkpointKey(cp.TextID, cp.Range), cp); err != nil {
		return errors.NewStorageErrorWithCause("failed to save checkpoint", err)
	}
	return nil
}

// Reset drops the checkpoint of a range so the next Record starts from zero
func (d *ProgressDAO) Reset(textID string, r search.Range) error {
	if err := d.store.Delete(storage.BucketProgress, checkpointKey(textID, r)); err != nil {
		return errors.NewStorageErrorWithCause("failed to reset checkpoint", err)
	}
	return nil
}

// Record merges a scan result for range r into its checkpoint
func (d *ProgressDAO) Record(textID string, r search.Range, res search.Result, done bool) (*Checkpoint, error) {
	cp, ok, err := d.Load(textID, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		cp = &Checkpoint{TextID: textID, Range: r}
	}
	if res.Checked > 0 {
		cp.Last = res.Last
		cp.Checked += res.Checked
		cp.Candidates += res.Candidates
	}
	cp.Done = done
	return cp, d.Save(cp)
}
