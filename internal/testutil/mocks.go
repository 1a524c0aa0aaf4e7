// Package testutil provides in-memory fakes for the service interfaces so
// handler and worker tests run without postgres, S3 or OpenAI.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Simple2B/bidhive-ml-api/internal/model"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
)

// MockEmbedder returns deterministic vectors derived from the text, so the
// same string always embeds to the same vector and distinct strings differ.
type MockEmbedder struct {
	Dim int
	Err error // every call fails with Err when set

	mu    sync.Mutex
	calls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dim: 8}
}

func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vector(text)
	}
	return vectors, nil
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *MockEmbedder) vector(text string) []float32 {
	seed := uint32(2166136261)
	for _, b := range []byte(strings.TrimSpace(text)) {
		seed = (seed ^ uint32(b)) * 16777619
	}

	vec := make([]float32, m.Dim)
	for i := range vec {
		seed = seed*1664525 + 1013904223 // LCG constants
		vec[i] = float32(seed%2000)/1000.0 - 1.0
	}
	return vec
}

// MemStorage is a map-backed ObjectStorage.
type MemStorage struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	modTimes map[string]time.Time
	PutErr   error
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		objects:  make(map[string][]byte),
		modTimes: make(map[string]time.Time),
	}
}

func (s *MemStorage) Put(_ context.Context, key string, data []byte) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	s.modTimes[key] = time.Now()
	return nil
}

func (s *MemStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, service.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	delete(s.modTimes, key)
	return nil
}

func (s *MemStorage) List(_ context.Context, prefix string) ([]service.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []service.ObjectInfo
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, service.ObjectInfo{Key: key, ModTime: s.modTimes[key]})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Has reports whether the key exists.
func (s *MemStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// MemFileRepo is a map-backed FileRepo.
type MemFileRepo struct {
	mu     sync.Mutex
	nextID uint
	files  map[uint]*model.UploadedFile
}

func NewMemFileRepo() *MemFileRepo {
	return &MemFileRepo{nextID: 1, files: make(map[uint]*model.UploadedFile)}
}

func (r *MemFileRepo) Create(file *model.UploadedFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	file.ID = r.nextID
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	r.nextID++
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *MemFileRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

func (r *MemFileRepo) FindByDedupeKey(companyID uint, fileName, checksum string) (*model.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.CompanyID == companyID && f.FileName == fileName && f.Checksum == checksum {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemFileRepo) FindByID(id uint) (*model.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, nil
	}
	clone := *f
	return &clone, nil
}

func (r *MemFileRepo) FindByIDs(ids []uint) ([]model.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var files []model.UploadedFile
	for _, id := range ids {
		if f, ok := r.files[id]; ok {
			files = append(files, *f)
		}
	}
	return files, nil
}

func (r *MemFileRepo) ListByCompany(companyID uint, page, pageSize int) ([]model.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var files []model.UploadedFile
	for _, f := range r.files {
		if f.CompanyID == companyID {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })

	offset := (page - 1) * pageSize
	if offset >= len(files) {
		return nil, nil
	}
	end := offset + pageSize
	if end > len(files) {
		end = len(files)
	}
	return files[offset:end], nil
}

func (r *MemFileRepo) UpdateStatus(id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.files[id]; ok {
		f.Status = status
	}
	return nil
}

func (r *MemFileRepo) UpdateStoragePath(id uint, path, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.files[id]; ok {
		f.StoragePath = path
		f.Status = status
	}
	return nil
}

func (r *MemFileRepo) MarkProcessed(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.files[id]; ok {
		f.Processed = true
		f.Status = model.StatusProcessed
	}
	return nil
}

// Count returns the number of stored records.
func (r *MemFileRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}
