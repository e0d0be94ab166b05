package repository

import (
	"gorm.io/gorm"

	"backend/internal/app/ds"
)

func (r *Repository) CreateUser(user *ds.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	user := &ds.User{}
	err := r.db.Where("login = ?", login).First(user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	user := &ds.User{}
	err := r.db.First(user, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) UpdateUser(user *ds.User) error {
	return r.db.Save(user).Error
}

// GetUsers возвращает пользователей по списку идентификаторов,
// используется для рассылки уведомлений о результатах
func (r *Repository) GetUsers(ids []uint) ([]ds.User, error) {
	var users []ds.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}
