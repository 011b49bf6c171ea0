package internal

import (
	"bitwise74/portal-api/internal/service"
	"bitwise74/portal-api/internal/store"

	"gorm.io/gorm"
)

// Deps is handed to every handler
type Deps struct {
	DB           *gorm.DB
	Repo         store.Repository
	Registrar    *service.Registrar
	Verifier     *service.Verifier
	Sweeper      *service.Sweeper
	Applications *service.Applications
	// CronSecret guards the cleanup endpoint, empty rejects every caller
	CronSecret string
}
