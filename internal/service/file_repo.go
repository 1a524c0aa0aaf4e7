package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Simple2B/bidhive-ml-api/internal/model"
)

// FileRepo is the metadata store for uploaded files.
type FileRepo interface {
	Create(file *model.UploadedFile) error
	Delete(id uint) error

	// FindByDedupeKey returns the record matching the dedupe tuple, or nil
	// when the upload has not been seen before.
	FindByDedupeKey(companyID uint, fileName, checksum string) (*model.UploadedFile, error)
	FindByID(id uint) (*model.UploadedFile, error)
	FindByIDs(ids []uint) ([]model.UploadedFile, error)
	ListByCompany(companyID uint, page, pageSize int) ([]model.UploadedFile, error)

	UpdateStatus(id uint, status string) error
	UpdateStoragePath(id uint, path, status string) error
	MarkProcessed(id uint) error
}

// GormFileRepo is the PostgreSQL implementation.
type GormFileRepo struct {
	db *gorm.DB
}

func NewGormFileRepo(db *gorm.DB) *GormFileRepo {
	return &GormFileRepo{db: db}
}

func (r *GormFileRepo) Create(file *model.UploadedFile) error {
	return r.db.Create(file).Error
}

func (r *GormFileRepo) Delete(id uint) error {
	return r.db.Delete(&model.UploadedFile{}, id).Error
}

func (r *GormFileRepo) FindByDedupeKey(companyID uint, fileName, checksum string) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.db.
		Where("company_id = ? AND file_name = ? AND checksum = ?", companyID, fileName, checksum).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepo) FindByID(id uint) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.db.First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepo) FindByIDs(ids []uint) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	if err := r.db.Where("id IN ?", ids).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *GormFileRepo) ListByCompany(companyID uint, page, pageSize int) ([]model.UploadedFile, error) {
	offset := (page - 1) * pageSize

	var files []model.UploadedFile
	err := r.db.
		Where("company_id = ?", companyID).
		Limit(pageSize).Offset(offset).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *GormFileRepo) UpdateStatus(id uint, status string) error {
	return r.db.Model(&model.UploadedFile{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormFileRepo) UpdateStoragePath(id uint, path, status string) error {
	return r.db.Model(&model.UploadedFile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"storage_path": path,
			"status":       status,
		}).Error
}

func (r *GormFileRepo) MarkProcessed(id uint) error {
	return r.db.Model(&model.UploadedFile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed": true,
			"status":    model.StatusProcessed,
		}).Error
}
