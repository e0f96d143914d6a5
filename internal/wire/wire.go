// Package wire provides dependency injection for the ambassador application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/ambassador/internal/adapters/cli"
	"github.com/example/ambassador/internal/adapters/csvfile"
	"github.com/example/ambassador/internal/adapters/filesystem"
	"github.com/example/ambassador/internal/adapters/sqlite"
	"github.com/example/ambassador/internal/app"
	"github.com/example/ambassador/internal/config"
	"github.com/example/ambassador/internal/db"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
)

var (
	workspaceDir = "."

	cfg      *config.Config
	logger   *zap.Logger
	database *sql.DB

	personService     primary.PersonService
	engagementService primary.EngagementService
	assignmentService primary.AssignmentService
	statisticsService primary.StatisticsService
	transferService   primary.TransferService
	backupService     primary.BackupService

	once    sync.Once
	initErr error
)

// SetWorkspace sets the directory whose .ambassador/config.json is loaded.
// It has no effect once services are initialized.
func SetWorkspace(dir string) {
	if dir != "" {
		workspaceDir = dir
	}
}

// Init initializes every service. It is safe to call repeatedly; only the
// first call does work and later calls return its error.
func Init() error {
	once.Do(initServices)
	return initErr
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger, or a no-op logger before Init succeeds.
func Logger() *zap.Logger {
	once.Do(initServices)
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// DB returns the open database handle.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// Close flushes the logger and closes the database.
func Close() error {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		return database.Close()
	}
	return nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	loaded, err := config.Load(workspaceDir)
	if err != nil {
		initErr = err
		return
	}
	cfg = loaded

	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		initErr = err
		return
	}

	database, err = db.Open(cfg.DatabasePath)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	// Create repository adapters (secondary ports) with the injected DB
	personRepo := sqlite.NewPersonRepository(database)
	engagementRepo := sqlite.NewEngagementRepository(database)
	linkRepo := sqlite.NewLinkRepository(database)
	statsRepo := sqlite.NewStatisticsRepository(database)
	snapshotRepo := sqlite.NewSnapshotRepository(database)
	codec := csvfile.NewCodec(cfg.Delimiter())
	archives := filesystem.NewArchiveAdapter()

	validator := app.NewValidator()

	// Create services (primary ports implementation)
	personService = app.NewPersonService(personRepo, validator, cfg.PageSize, logger.Named("person"))
	engagementService = app.NewEngagementService(engagementRepo, linkRepo, validator,
		cfg.EngagementCapacity, cfg.PageSize, logger.Named("engagement"))
	assignmentService = app.NewAssignmentService(personRepo, engagementRepo, linkRepo, statsRepo,
		validator, cfg.PageSize, logger.Named("assignment"))
	statisticsService = app.NewStatisticsService(statsRepo)
	transferService = app.NewTransferService(codec, personRepo, engagementRepo, linkRepo,
		personService, engagementService, logger.Named("transfer"))
	backupService = app.NewBackupService(snapshotRepo, archives, cfg.DatabasePath, cfg.BackupDir,
		db.LatestVersion(), database.Close, logger.Named("backup"))
}

// PersonService returns the singleton PersonService instance.
func PersonService() primary.PersonService {
	once.Do(initServices)
	return personService
}

// EngagementService returns the singleton EngagementService instance.
func EngagementService() primary.EngagementService {
	once.Do(initServices)
	return engagementService
}

// AssignmentService returns the singleton AssignmentService instance.
func AssignmentService() primary.AssignmentService {
	once.Do(initServices)
	return assignmentService
}

// StatisticsService returns the singleton StatisticsService instance.
func StatisticsService() primary.StatisticsService {
	once.Do(initServices)
	return statisticsService
}

// TransferService returns the singleton TransferService instance.
func TransferService() primary.TransferService {
	once.Do(initServices)
	return transferService
}

// BackupService returns the singleton BackupService instance.
func BackupService() primary.BackupService {
	once.Do(initServices)
	return backupService
}

// PersonAdapter returns a new PersonAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func PersonAdapter() *cliadapter.PersonAdapter {
	return PersonAdapterWithOutput(os.Stdout)
}

// PersonAdapterWithOutput returns a new PersonAdapter writing to the given output.
func PersonAdapterWithOutput(out io.Writer) *cliadapter.PersonAdapter {
	return cliadapter.NewPersonAdapter(PersonService(), out)
}

// EngagementAdapter returns a new EngagementAdapter writing to stdout.
func EngagementAdapter() *cliadapter.EngagementAdapter {
	return EngagementAdapterWithOutput(os.Stdout)
}

// EngagementAdapterWithOutput returns a new EngagementAdapter writing to the given output.
func EngagementAdapterWithOutput(out io.Writer) *cliadapter.EngagementAdapter {
	return cliadapter.NewEngagementAdapter(EngagementService(), out)
}

// LinkAdapter returns a new LinkAdapter writing to stdout.
func LinkAdapter() *cliadapter.LinkAdapter {
	return LinkAdapterWithOutput(os.Stdout)
}

// LinkAdapterWithOutput returns a new LinkAdapter writing to the given output.
func LinkAdapterWithOutput(out io.Writer) *cliadapter.LinkAdapter {
	return cliadapter.NewLinkAdapter(AssignmentService(), out)
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
func ReportAdapter() *cliadapter.ReportAdapter {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	return cliadapter.NewReportAdapter(StatisticsService(), AssignmentService(), out)
}
