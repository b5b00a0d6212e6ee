package postgres

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"freightdesk/internal/models"
)

type CustomerPostgresRepo struct {
	db *gorm.DB
}

func NewCustomerPostgres(db *gorm.DB) *CustomerPostgresRepo {
	return &CustomerPostgresRepo{db: db}
}

func (r *CustomerPostgresRepo) Create(c *models.Customer) error {
	return errors.Wrap(r.db.Create(c).Error, "insert customer")
}

func (r *CustomerPostgresRepo) Get(id uint) (models.Customer, error) {
	var c models.Customer
	q := r.db.Preload("Orders", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, customer_id, status")
	}).Where("id = ?", id).First(&c)
	return c, q.Error
}

func (r *CustomerPostgresRepo) Search(query string) ([]models.Customer, error) {
	like := "%" + query + "%"
	var out []models.Customer
	err := r.db.Where("name ILIKE ? OR email ILIKE ?", like, like).
		Order("name ASC").
		Limit(10).
		Find(&out).Error
	return out, errors.Wrap(err, "search customers")
}

func (r *CustomerPostgresRepo) Exists(id uint) (bool, error) {
	var count int
	if err := r.db.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check customer")
	}
	return count > 0, nil
}
