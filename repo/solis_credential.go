package repo

import (
	"github.com/HavvokLab/solis-cloud/model"
	"gorm.io/gorm"
)

type SolisCredentialRepo interface {
	FindAll() ([]model.SolisCredential, error)
	FindByOwner(owner string) ([]model.SolisCredential, error)
	Create(credential *model.SolisCredential) error
	Update(id int64, credential *model.SolisCredential) error
	Delete(id int64) error
}

type solisCredentialRepo struct {
	db *gorm.DB
}

func NewSolisCredentialRepo(db *gorm.DB) SolisCredentialRepo {
	return &solisCredentialRepo{db: db}
}

func (r *solisCredentialRepo) FindAll() ([]model.SolisCredential, error) {
	var credentials []model.SolisCredential
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Order("id").Find(&credentials).Error; err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *solisCredentialRepo) FindByOwner(owner string) ([]model.SolisCredential, error) {
	var credentials []model.SolisCredential
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Where("owner = ?", owner).Order("id").Find(&credentials).Error; err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *solisCredentialRepo) Create(credential *model.SolisCredential) error {
	tx := r.db.Session(&gorm.Session{})
	return tx.Create(credential).Error
}

func (r *solisCredentialRepo) Update(id int64, credential *model.SolisCredential) error {
	tx := r.db.Session(&gorm.Session{})
	return tx.Model(&model.SolisCredential{}).Where("id = ?", id).Updates(credential).Error
}

func (r *solisCredentialRepo) Delete(id int64) error {
	tx := r.db.Session(&gorm.Session{})
	return tx.Where("id = ?", id).Delete(&model.SolisCredential{}).Error
}
