package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Simple2B/bidhive-ml-api/internal/dataset"
)

// DatasetStore persists one dataset CSV per company in the object store.
type DatasetStore struct {
	storage      ObjectStorage
	embedAnswers bool
}

func NewDatasetStore(storage ObjectStorage, embedAnswers bool) *DatasetStore {
	return &DatasetStore{storage: storage, embedAnswers: embedAnswers}
}

// Key returns the deterministic dataset path for a company.
func (s *DatasetStore) Key(companyID uint) string {
	return fmt.Sprintf("datasets/%d/dataset.csv", companyID)
}

// Load reads the company dataset. A company with no dataset yet gets an
// empty one with the configured schema.
func (s *DatasetStore) Load(ctx context.Context, companyID uint) (*dataset.Dataset, error) {
	data, err := s.storage.Get(ctx, s.Key(companyID))
	if errors.Is(err, ErrObjectNotFound) {
		return dataset.New(s.embedAnswers), nil
	}
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("dataset for company %d: %w", companyID, err)
	}
	return ds, nil
}

// Save writes the dataset back in full.
func (s *DatasetStore) Save(ctx context.Context, companyID uint, ds *dataset.Dataset) error {
	data, err := ds.Encode()
	if err != nil {
		return fmt.Errorf("dataset for company %d: %w", companyID, err)
	}
	return s.storage.Put(ctx, s.Key(companyID), data)
}
