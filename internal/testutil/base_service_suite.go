package testutil

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/cache"
	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	"github.com/gradeflow/gradeflow/internal/domain/period"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	"github.com/gradeflow/gradeflow/internal/idempotency"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/gradeflow/gradeflow/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	GradeRepo       grade.Repository
	ParticipantRepo participant.Repository
	TransitionRepo  transition.Repository
	PeriodRepo      period.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	stores         Stores
	db             postgres.IClient
	cache          cache.Cache
	idempotencyGen *idempotency.Generator
	logger         *logger.Logger
	config         *config.Configuration
	now            time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.idempotencyGen = idempotency.NewGenerator()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		GradeRepo:       NewInMemoryGradeStore(),
		ParticipantRepo: NewInMemoryParticipantStore(),
		TransitionRepo:  NewInMemoryTransitionStore(),
		PeriodRepo:      NewInMemoryPeriodStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.Initialize(s.config, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.GradeRepo.(*InMemoryGradeStore).Clear()
	s.stores.ParticipantRepo.(*InMemoryParticipantStore).Clear()
	s.stores.TransitionRepo.(*InMemoryTransitionStore).Clear()
	s.stores.PeriodRepo.(*InMemoryPeriodStore).Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetIdempotencyGenerator returns the idempotency key generator
func (s *BaseServiceTestSuite) GetIdempotencyGenerator() *idempotency.Generator {
	return s.idempotencyGen
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
