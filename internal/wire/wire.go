// Package wire provides dependency injection for the advgen application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/example/advgen/internal/adapters/filesystem"
	"github.com/example/advgen/internal/adapters/grounder"
	"github.com/example/advgen/internal/adapters/proc"
	"github.com/example/advgen/internal/adapters/sqlite"
	"github.com/example/advgen/internal/app"
	"github.com/example/advgen/internal/config"
	"github.com/example/advgen/internal/db"
	"github.com/example/advgen/internal/ports/primary"
	"github.com/example/advgen/internal/ports/secondary"
)

var (
	cfg               *config.Config
	datasetService    primary.DatasetService
	dictionaryService primary.DictionaryService
	supervisorService primary.SupervisorService
	runRepository     secondary.RunRepository
	workspaces        secondary.WorkspaceManager
	once              sync.Once
)

// Config returns the loaded configuration, falling back to defaults when no
// config file exists ('advgen init' writes one).
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// DatasetService returns the singleton DatasetService instance.
func DatasetService() primary.DatasetService {
	once.Do(initServices)
	return datasetService
}

// DictionaryService returns the singleton DictionaryService instance.
func DictionaryService() primary.DictionaryService {
	once.Do(initServices)
	return dictionaryService
}

// SupervisorService returns the singleton SupervisorService instance.
func SupervisorService() primary.SupervisorService {
	once.Do(initServices)
	return supervisorService
}

// RunRepository returns the singleton run registry.
func RunRepository() secondary.RunRepository {
	once.Do(initServices)
	return runRepository
}

// Workspaces returns the singleton workspace manager.
func Workspaces() secondary.WorkspaceManager {
	once.Do(initServices)
	return workspaces
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	loaded, err := config.Load(".")
	if err != nil {
		loaded = config.Default()
	}
	cfg = loaded

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// Secondary adapters
	dictionaryRepo := sqlite.NewDictionaryRepository(database)
	runRepository = sqlite.NewRunRepository(database)
	problems := filesystem.NewBundleSource(cfg.DataDir)
	actionSpaces := grounder.NewExecProvider(cfg.GrounderCommand)
	results := filesystem.NewResultStore(cfg.ResultsDir())
	pids := filesystem.NewPIDStore(cfg.PIDDir())
	workspaces = filesystem.NewWorkspaceManager(cfg.TmpPrefix)

	// Services (primary ports implementation)
	datasetService = app.NewDatasetService(problems, actionSpaces, dictionaryRepo, results, logger)
	dictionaryService = app.NewDictionaryService(problems, actionSpaces, dictionaryRepo, logger)
	supervisorService = app.NewSupervisorService(cfg, pids, proc.NewController(), proc.NewSelfLauncher(), workspaces, logger)
}
