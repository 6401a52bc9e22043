package mysql

import (
	"oqunet/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func (r *CommunityRepository) Create(c *model.Community) error {
	return r.DB.Create(c).Error
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.Preload("Owner").First(&community, id).Error
	return &community, err
}

// FindByAccessCode looks a community up by its normalized code.
func (r *CommunityRepository) FindByAccessCode(code string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("access_code = ?", model.NormalizeAccessCode(code)).
		First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List() ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Preload("Owner").Order("id ASC").Find(&list).Error
	return list, err
}

func (r *CommunityRepository) ListByOwner(ownerID uint64) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Preload("Owner").Where("owner_id = ?", ownerID).
		Order("id ASC").Find(&list).Error
	return list, err
}

// ListPublic returns the unauthenticated directory view.
func (r *CommunityRepository) ListPublic() ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Select("id", "name", "description").Order("name ASC").Find(&list).Error
	return list, err
}

func (r *CommunityRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Community{}, id).Error
}
