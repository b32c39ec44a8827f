package repositories

import (
	"obras-backend/models"

	"gorm.io/gorm"
)

type WorkRepository struct {
	db *gorm.DB
}

func (r *WorkRepository) Create(work *models.Work) error {
	return r.db.Create(work).Error
}

// Find loads the work with its material lines and their pinned snapshots.
func (r *WorkRepository) Find(id uint) (*models.Work, error) {
	var work models.Work
	err := r.db.
		Preload("Materials.Material").
		Preload("Materials.Price").
		Preload("Materials.Stock").
		First(&work, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &work, nil
}

// FindForUpdate loads the bare work row under a row lock.
func (r *WorkRepository) FindForUpdate(id uint) (*models.Work, error) {
	var work models.Work
	if err := forUpdate(r.db).First(&work, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &work, nil
}

// SyncMaterialLines replaces the work's full line set.
func (r *WorkRepository) SyncMaterialLines(workID uint, lines []models.WorkMaterial) error {
	if err := r.db.Where("work_id = ?", workID).Delete(&models.WorkMaterial{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].WorkID = workID
	}
	return r.db.Omit("Material", "Price", "Stock").Create(&lines).Error
}

// Save writes the work's own columns; associations are managed by SyncMaterialLines.
func (r *WorkRepository) Save(work *models.Work) error {
	return r.db.Omit("Materials").Save(work).Error
}

func (r *WorkRepository) UpdateState(work *models.Work, state models.LifecycleState) error {
	return r.db.Model(work).Update("state", state).Error
}
