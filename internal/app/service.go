package app

import (
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/importer"
	"github.com/robotica-events/robojudge/internal/judging"
	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/reporting"
	"github.com/robotica-events/robojudge/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.EventStore
	Auth     *Auth
	Importer *importer.Pipeline
	Judge    *judging.Judge
	Reporter *reporting.Reporter
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	eventStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config, eventStore)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	service := &Service{
		Config:   config,
		Store:    eventStore,
		Auth:     auth,
		Importer: importer.NewPipeline(eventStore, config.Import.BatchSize, config.Import.QRSize),
		Judge:    judging.NewJudge(eventStore),
		Reporter: reporting.NewReporter(eventStore, config.Display.TimestampFormat),
	}

	if err := service.EnsureAdmin(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return service, nil
}

// EnsureAdmin creates the default administrator when the admins table is
// empty, so a fresh deployment is immediately usable.
func (s *Service) EnsureAdmin() error {
	if s.Config.Bootstrap.AdminEmail == "" {
		return nil
	}

	count, err := s.Store.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(s.Config.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Email:        s.Config.Bootstrap.AdminEmail,
		PasswordHash: hash,
	}
	if err := s.Store.CreateAdmin(admin); err != nil {
		return err
	}

	logger.Info.Printf("Default admin %s created", admin.Email)
	return nil
}

// CreateStaff registers a judging account with a hashed password.
func (s *Service) CreateStaff(name, email, password string, category models.Category) (*models.Staff, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Category:     category,
		CreatedAt:    time.Now().UTC().Unix(),
	}
	if err := staff.Validate(); err != nil {
		return nil, err
	}

	if err := s.Store.CreateStaff(staff); err != nil {
		return nil, err
	}

	created, err := s.Store.GetStaffByEmail(email)
	if err != nil {
		return nil, err
	}
	if created != nil {
		return created, nil
	}
	return staff, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
