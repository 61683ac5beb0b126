package main

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/db"
	"github.com/pmcoe-ai1/conference-app/pkg/secretbox"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	gormstore "github.com/pmcoe-ai1/conference-app/pkg/server/store/gorm"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// loadCipher reads the base64 data key from DATA_KEY
func loadCipher() (*secretbox.AESGCM, error) {
	dataKey, ok := os.LookupEnv("DATA_KEY")
	if !ok || dataKey == "" {
		return nil, fmt.Errorf("DATA_KEY environment variable is required")
	}
	cipher, err := secretbox.NewFromBase64(dataKey)
	if err != nil {
		return nil, fmt.Errorf("bad DATA_KEY: %w", err)
	}
	return cipher, nil
}

func loadConfig() (*config.ConferenceConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func connectDB() (*gorm.DB, error) {
	return db.Connect(db.Config{URL: db.URL(), MaxOpenConns: 20})
}

// newStores wires the gorm implementations of every store interface
func newStores(database *gorm.DB) (server.Stores, *gormstore.DeliveriesStore) {
	admins := gormstore.NewAdminsStore(database)
	surveys := gormstore.NewSurveysStore(database)
	return server.Stores{
		Admins:         admins,
		PasswordResets: admins,
		Conferences:    gormstore.NewConferencesStore(database),
		Surveys:        surveys,
		Questions:      surveys,
		Attendees:      gormstore.NewAttendeesStore(database),
		Responses:      gormstore.NewResponsesStore(database),
		Health:         gormstore.NewHealthStore(database),
	}, gormstore.NewDeliveriesStore(database)
}
