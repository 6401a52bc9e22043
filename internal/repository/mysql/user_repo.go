package mysql

import (
	"oqunet/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Community").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Community").Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List() ([]model.User, error) {
	var users []model.User
	err := r.DB.Preload("Community").Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByCommunity(communityID uint64) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("community_id = ?", communityID).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}

// SetCommunity writes the membership column directly so a nil value
// actually clears it.
func (r *UserRepository) SetCommunity(userID uint64, communityID *uint64) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("community_id", communityID).Error
}

// ClearCommunityForAll detaches every member of a community.
func (r *UserRepository) ClearCommunityForAll(communityID uint64) error {
	return r.DB.Model(&model.User{}).Where("community_id = ?", communityID).
		Update("community_id", nil).Error
}

func (r *UserRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.User{}, id).Error
}

// Search matches name, email or phone by case-insensitive substring.
func (r *UserRepository) Search(query string) ([]model.User, error) {
	var users []model.User
	q := r.DB.Preload("Community")
	if query != "" {
		p := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?", p, p, p)
	}
	err := q.Order("name ASC").Find(&users).Error
	return users, err
}
