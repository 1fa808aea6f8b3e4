package dao

import (
	"encoding/binary"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/search"
	"github.com/vigenere-search/internal/storage"
)

// CandidateDAO persists accepted candidates keyed by key identity
type CandidateDAO struct {
	store *storage.Store
}

// NewCandidateDAO creates a new candidate DAO
func NewCandidateDAO(store *storage.Store) *CandidateDAO {
	return &CandidateDAO{store: store}
}

// identityKey encodes an identity big-endian so bucket order is identity order
func identityKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// Save stores a candidate, replacing any earlier one for the same identity
func (d *CandidateDAO) Save(c search.Candidate) error {
	if err := d.store.SetJSON(storage.BucketCandidates, identityKey(c.Identity), c); err != nil {
		return errors.NewStorageErrorWithCause("failed to save candidate", err)
	}
	return nil
}

// Get retrieves the candidate for identity id
func (d *CandidateDAO) Get(id uint64) (*search.Candidate, error) {
	var c search.Candidate
	ok, err := d.store.GetJSON(storage.BucketCandidates, identityKey(id), &c)
	if err != nil {
		return nil, errors.NewStorageErrorWithCause("failed to load candidate", err)
	}
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no candidate for key identity %d", id))
	}
	return &c, nil
}

// errPageFull stops a bucket walk once a page is complete
var errPageFull = stderrors.New("page full")

// List returns up to limit candidates in identity order, skipping offset,
// together with the total number stored. A limit of 0 returns the rest.
func (d *CandidateDAO) List(offset, limit int) ([]search.Candidate, int, error) {
	total, err := d.store.Count(storage.BucketCandidates)
	if err != nil {
		return nil, 0, errors.NewStorageErrorWithCause("failed to count candidates", err)
	}

	result := []search.Candidate{}
	if offset >= total {
		return result, total, nil
	}
	idx := 0
	err = d.store.ForEach(storage.BucketCandidates, func(k, v []byte) error {
		if limit > 0 && len(result) >= limit {
			return errPageFull
		}
		if idx++; idx <= offset {
			return nil
		}
		var c search.Candidate
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		result = append(result, c)
		return nil
	})
	if err != nil && !stderrors.Is(err, errPageFull) {
		return nil, 0, errors.NewStorageErrorWithCause("failed to list candidates", err)
	}
	return result, total, nil
}
