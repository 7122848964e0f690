package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/stubapi"
	"github.com/ehmtravel/backoffice/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the stub backend with sample data",
	Long:  `Seed the stub backend database with sample accounts and records for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)

		srv, err := stubapi.New(cfg.Stub, logger.L())
		if err != nil {
			log.Fatalf("failed to init stub backend: %v", err)
		}

		accounts := []struct {
			Username    string
			FullName    string
			Role        string
			Permissions string
		}{
			{"admin", "Admin", "admin", "users.manage,roles.manage,reservations.manage,customers.manage,suppliers.manage,contracts.manage,logistics.manage,reports.view"},
			{"sara", "Sara Haddad", "operations", "reservations.manage,customers.manage,logistics.manage"},
			{"omar", "Omar Khalil", "sales", "reservations.view,customers.manage"},
		}
		for _, acc := range accounts {
			if err := srv.SeedUser(acc.Username, acc.FullName, "password", acc.Role, acc.Permissions); err != nil {
				log.Fatalf("failed to seed user %s: %v", acc.Username, err)
			}
			fmt.Println("Seeded user:", acc.Username)
		}

		samples := map[entity.Kind][]entity.Record{
			entity.KindReservations: {
				{"reference": "RSV-1001", "clientName": "Lina Haddad", "destination": "Istanbul", "hotel": "Grand Bosphorus", "checkIn": "2026-09-10", "checkOut": "2026-09-15", "pax": 2.0, "totalPrice": 1450.0, "paid": false, "status": "confirmed"},
				{"reference": "RSV-1002", "clientName": "Yousef Nasser", "destination": "Sharm El Sheikh", "hotel": "Coral Bay", "checkIn": "2026-10-01", "checkOut": "2026-10-07", "pax": 4.0, "totalPrice": 3200.0, "paid": true, "status": "paid"},
			},
			entity.KindCustomers: {
				{"name": "Lina Haddad", "phone": "+962790000001", "email": "lina@example.com", "nationality": "Jordanian"},
				{"name": "Yousef Nasser", "phone": "+962790000002", "email": "yousef@example.com", "nationality": "Jordanian"},
			},
			entity.KindSuppliers: {
				{"name": "Petra Transport Co", "serviceType": "transfers", "contactPhone": "+962790000010", "city": "Amman"},
			},
		}
		for kind, records := range samples {
			for _, rec := range records {
				created, err := srv.SeedRecord(kind, rec)
				if err != nil {
					log.Fatalf("failed to seed %s record: %v", kind, err)
				}
				fmt.Printf("Seeded %s: %s\n", kind, created.ID())
			}
		}

		fmt.Println("Sample data seeded successfully")
	},
}
