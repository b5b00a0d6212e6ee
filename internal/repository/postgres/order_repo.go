package postgres

import (
	"strconv"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"freightdesk/internal/models"
)

type ListFilter struct {
	Query  string
	Sort   string
	Offset int
	Limit  int
}

var sortExprs = map[string]string{
	"newest":   "orders.created_at DESC",
	"oldest":   "orders.created_at ASC",
	"shortest": "orders.miles ASC",
	"longest":  "orders.miles DESC",
}

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

// Create inserts the order and its stops in one transaction; a failed
// stop insert rolls back the order row, readers never see an order
// without stops.
func (r *OrderPostgresRepo) Create(o models.Order, stops []models.Stop) (uint, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return errors.Wrap(err, "insert order")
		}
		for i := range stops {
			stops[i].OrderID = o.ID
			if err := tx.Create(&stops[i]).Error; err != nil {
				return errors.Wrap(err, "insert stop")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

func stopsAscending(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

func (r *OrderPostgresRepo) Get(id uint) (models.Order, error) {
	var o models.Order
	q := r.db.Preload("Customer").
		Preload("Stops", stopsAscending).
		Where("id = ?", id).
		First(&o)
	return o, q.Error
}

// List applies the free-text filter against reference and customer
// name; a query that parses as an integer additionally matches the
// order id exactly. Rows without miles sort per the store's null
// ordering (nulls last ascending on Postgres).
func (r *OrderPostgresRepo) List(f ListFilter) ([]models.Order, int, error) {
	q := r.db.Model(&models.Order{})
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id")
		if id, err := strconv.ParseUint(f.Query, 10, 32); err == nil {
			q = q.Where("orders.reference ILIKE ? OR customers.name ILIKE ? OR orders.id = ?", like, like, uint(id))
		} else {
			q = q.Where("orders.reference ILIKE ? OR customers.name ILIKE ?", like, like)
		}
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	order, ok := sortExprs[f.Sort]
	if !ok {
		order = sortExprs["newest"]
	}

	var out []models.Order
	err := q.Preload("Customer").
		Preload("Stops", stopsAscending).
		Order(order).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return out, total, nil
}

func (r *OrderPostgresRepo) Exists(id uint) (bool, error) {
	var count int
	if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check order")
	}
	return count > 0, nil
}

// ReplaceStops swaps the order's entire stop set and its geometry in
// one transaction. This is a full replace: stops missing from the new
// set are deleted even if unchanged.
func (r *OrderPostgresRepo) ReplaceStops(orderID uint, stops []models.Stop, geometry models.Polyline) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(models.Stop{}).Error; err != nil {
			return errors.Wrap(err, "delete stops")
		}
		for i := range stops {
			stops[i].OrderID = orderID
			if err := tx.Create(&stops[i]).Error; err != nil {
				return errors.Wrap(err, "insert stop")
			}
		}
		err := tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("route_geometry", geometry).Error
		return errors.Wrap(err, "update geometry")
	})
}

func (r *OrderPostgresRepo) UpdateRate(orderID uint, rate float64) error {
	err := r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("rate", rate).Error
	return errors.Wrap(err, "update rate")
}

func (r *OrderPostgresRepo) Counts() (int, int, error) {
	var orders, deliveries int
	if err := r.db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		return 0, 0, errors.Wrap(err, "count orders")
	}
	if err := r.db.Model(&models.Stop{}).
		Where("stop_type = ?", models.StopDelivery).
		Count(&deliveries).Error; err != nil {
		return 0, 0, errors.Wrap(err, "count delivery stops")
	}
	return orders, deliveries, nil
}
