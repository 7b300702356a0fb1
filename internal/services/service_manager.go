package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/auth"
	"github.com/exam-portal/registration-service/internal/events"
	"github.com/exam-portal/registration-service/internal/repositories"
	"github.com/exam-portal/registration-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration
	LogLevel       slog.Level
}

// serviceManager implements ServiceManager
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	userService         UserService
	examService         ExamService
	registrationService RegistrationService
	paymentService      PaymentService
	enrollmentService   EnrollmentService
	contentService      ContentService
	exportService       ExportService
	notificationService NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager, publisher events.EventPublisher) ServiceManager {
	return NewServiceManager(db, repo, logger, validator, tokens, publisher, ServiceManagerConfig{
		DefaultTimeout: 30 * time.Second,
		LogLevel:       slog.LevelInfo,
	})
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	// The notification service is wired first; lifecycle services publish
	// through it.
	sm.notificationService = NewNotificationEventService(sm.publisher, sm.logger)

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator, sm.tokens)
	sm.examService = NewExamService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.registrationService = NewRegistrationService(sm.repo, sm.db, sm.logger, sm.notificationService)
	sm.paymentService = NewPaymentService(sm.repo, sm.db, sm.logger, sm.notificationService)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.db, sm.logger, sm.notificationService)
	sm.contentService = NewContentService(sm.repo, sm.db, sm.logger, sm.validator, sm.notificationService)
	sm.exportService = NewExportService(sm.repo, sm.db, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) User() UserService {
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Exam() ExamService {
	sm.mustBeInitialized()
	return sm.examService
}

func (sm *serviceManager) Registration() RegistrationService {
	sm.mustBeInitialized()
	return sm.registrationService
}

func (sm *serviceManager) Payment() PaymentService {
	sm.mustBeInitialized()
	return sm.paymentService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mustBeInitialized()
	return sm.enrollmentService
}

func (sm *serviceManager) Content() ContentService {
	sm.mustBeInitialized()
	return sm.contentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mustBeInitialized()
	return sm.notificationService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
