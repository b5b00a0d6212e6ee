package service

import (
	"context"

	"github.com/jinzhu/gorm"

	"freightdesk/internal/dto"
	"freightdesk/internal/models"
)

func (s *Service) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	return s.customers.Search(query)
}

func (s *Service) GetCustomerByID(ctx context.Context, id uint) (dto.CustomerDetail, error) {
	if s.cache.Available() {
		if d, ok := s.cache.GetCustomer(id); ok {
			return d, nil
		}
	}

	customer, err := s.customers.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return dto.CustomerDetail{}, ErrNotFound
	}
	if err != nil {
		return dto.CustomerDetail{}, err
	}

	detail := dto.ToCustomerDetail(customer)
	s.cache.PutCustomer(detail)
	return detail, nil
}
