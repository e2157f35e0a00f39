package repository

import (
	"context"

	"vidhub/internal/model"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.User, error)
	ListRecommended(ctx context.Context, excludeID int64, limit int) ([]model.User, error)
	SearchByUsername(ctx context.Context, keyword string, skip, limit int) ([]model.User, int64, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

// GetByID 根据 ID 查询用户
func (r *userRepoImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户
func (r *userRepoImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量查询用户，顺序不保证
func (r *userRepoImpl) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepoImpl) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户字段（传入 map，只更新给出的字段）
func (r *userRepoImpl) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.User, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// ListRecommended 推荐频道：除自己以外最新注册的用户，excludeID 为 0 时不排除
func (r *userRepoImpl) ListRecommended(ctx context.Context, excludeID int64, limit int) ([]model.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var users []model.User
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&users).Error
	return users, err
}

// SearchByUsername 用户名模糊搜索
func (r *userRepoImpl) SearchByUsername(ctx context.Context, keyword string, skip, limit int) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("username ILIKE ?", "%"+keyword+"%")

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := query.Session(&gorm.Session{}).Order("created_at DESC").Order("id DESC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
