package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"freightdesk/internal/configs"
	"freightdesk/internal/models"
	"freightdesk/internal/repository"
	"freightdesk/internal/repository/cache"
	"freightdesk/internal/repository/postgres"
	"freightdesk/internal/service"
)

// Populates a fresh database with a handful of customers and multi-stop
// orders so the API has something to serve during local development.

func f(v float64) *float64 { return &v }

func t(s string) *time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		logrus.Fatalf("seed time %q: %s", s, err)
	}
	return &ts
}

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}

	db, err := postgres.ConnectURL(cfg.PgDSN())
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.Stop{}).Error; err != nil {
		logrus.Fatalf("auto-migrate: %s", err)
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cache.NewOrderCache(cache.Noop{}), nil)
	ctx := context.Background()

	customers := []models.Customer{
		{
			Name:  "Acme Logistics",
			Email: "contact@acmelogistics.com",
			Phone: "555-0101",
			PrimaryContact: models.Contact{
				"name":  "John Smith",
				"email": "john@acmelogistics.com",
				"phone": "555-0102",
			},
			BillingAddress: models.Contact{
				"street": "100 Commerce Blvd",
				"city":   "New York",
				"state":  "NY",
				"zip":    "10001",
			},
		},
		{
			Name:  "Global Shipping Co",
			Email: "info@globalshipping.com",
			Phone: "555-0201",
			PrimaryContact: models.Contact{
				"name":  "Sarah Johnson",
				"email": "sarah@globalshipping.com",
				"phone": "555-0202",
			},
			BillingAddress: models.Contact{
				"street": "200 Harbor Way",
				"city":   "Los Angeles",
				"state":  "CA",
				"zip":    "90001",
			},
		},
		{Name: "Fast Freight Inc", Email: "dispatch@fastfreight.com", Phone: "555-0301"},
		{Name: "Metro Transport", Email: "ops@metrotransport.com", Phone: "555-0401"},
		{Name: "City Delivery Services", Email: "hello@citydelivery.com", Phone: "555-0501"},
	}
	for i := range customers {
		if err := repo.CustomerPostgres.Create(&customers[i]); err != nil {
			logrus.Fatalf("seed customer %q: %s", customers[i].Name, err)
		}
		logrus.Printf("customer %d: %s", customers[i].ID, customers[i].Name)
	}

	orders := []service.CreateOrderInput{
		{
			CustomerID:    customers[0].ID,
			Status:        models.StatusQuoted,
			Notes:         "Fragile cargo, lift-gate required at delivery",
			EquipmentType: "Dry Van",
			Commodity:     "Electronics",
			WeightLbs:     f(5000),
			Miles:         f(15.5),
			Rate:          f(1250.00),
			Stops: []service.StopInput{
				{
					Sequence:    1,
					Latitude:    40.7128,
					Longitude:   -74.0060,
					PlannedTime: t("2026-09-07T09:00:00Z"),
					Address:     "123 Main St, New York, NY 10001",
					City:        "New York",
					State:       "NY",
					StopType:    models.StopPickup,
				},
				{
					Sequence:    2,
					Latitude:    40.7306,
					Longitude:   -73.9866,
					PlannedTime: t("2026-09-07T11:30:00Z"),
					Address:     "456 Park Ave, New York, NY 10016",
					City:        "New York",
					State:       "NY",
					StopType:    models.StopDelivery,
				},
				{
					Sequence:    3,
					Latitude:    40.7484,
					Longitude:   -73.9857,
					PlannedTime: t("2026-09-07T14:00:00Z"),
					Address:     "789 Fifth Ave, New York, NY 10022",
					City:        "New York",
					State:       "NY",
					StopType:    models.StopDelivery,
				},
			},
		},
		{
			CustomerID:    customers[1].ID,
			Status:        models.StatusConfirmed,
			Notes:         "Keep reefer at 36F end to end",
			EquipmentType: "Refrigerated",
			Commodity:     "Food Products",
			WeightLbs:     f(8000),
			Miles:         f(25.3),
			Rate:          f(2100.50),
			Stops: []service.StopInput{
				{
					Sequence:    1,
					Latitude:    34.0522,
					Longitude:   -118.2437,
					PlannedTime: t("2026-09-08T07:00:00Z"),
					Address:     "321 Produce Row, Los Angeles, CA 90021",
					City:        "Los Angeles",
					State:       "CA",
					StopType:    models.StopPickup,
				},
				{
					Sequence:    2,
					Latitude:    34.1478,
					Longitude:   -118.1445,
					PlannedTime: t("2026-09-08T10:00:00Z"),
					Address:     "654 Market St, Pasadena, CA 91101",
					City:        "Pasadena",
					State:       "CA",
					StopType:    models.StopDelivery,
				},
			},
		},
		{
			CustomerID:    customers[2].ID,
			Status:        models.StatusDraft,
			EquipmentType: "Flatbed",
			Commodity:     "Steel Coils",
			WeightLbs:     f(42000),
			Stops: []service.StopInput{
				{
					Sequence:  1,
					Latitude:  41.8781,
					Longitude: -87.6298,
					Address:   "900 Industrial Dr, Chicago, IL 60607",
					City:      "Chicago",
					State:     "IL",
					StopType:  models.StopPickup,
				},
				{
					Sequence:  2,
					Latitude:  42.3314,
					Longitude: -83.0458,
					Address:   "15 Rouge Plant Rd, Detroit, MI 48120",
					City:      "Detroit",
					State:     "MI",
					StopType:  models.StopDelivery,
				},
			},
		},
	}
	for _, in := range orders {
		id, err := svc.CreateOrder(ctx, in)
		if err != nil {
			logrus.Fatalf("seed order for customer %d: %s", in.CustomerID, err)
		}
		logrus.Printf("order %d: %s / %s", id, in.EquipmentType, in.Commodity)
	}

	logrus.Print("seed complete")
}
