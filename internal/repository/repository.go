package repository

import (
	"freightdesk/internal/models"
	"freightdesk/internal/repository/postgres"

	"github.com/jinzhu/gorm"
)

type OrderPostgres interface {
	Create(order models.Order, stops []models.Stop) (uint, error)
	Get(id uint) (models.Order, error)
	List(f postgres.ListFilter) ([]models.Order, int, error)
	Exists(id uint) (bool, error)
	ReplaceStops(orderID uint, stops []models.Stop, geometry models.Polyline) error
	UpdateRate(orderID uint, rate float64) error
	Counts() (orders int, deliveryStops int, err error)
}

type CustomerPostgres interface {
	Create(c *models.Customer) error
	Get(id uint) (models.Customer, error)
	Search(query string) ([]models.Customer, error)
	Exists(id uint) (bool, error)
}

type Repository struct {
	OrderPostgres
	CustomerPostgres
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		OrderPostgres:    postgres.NewOrderPostgres(db),
		CustomerPostgres: postgres.NewCustomerPostgres(db),
	}
}
