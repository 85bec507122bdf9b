package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/card-transactions-generator/app/handlers"
	"github.com/amirphl/card-transactions-generator/app/router"
	"github.com/amirphl/card-transactions-generator/app/services"
	businessflow "github.com/amirphl/card-transactions-generator/business_flow"
	"github.com/amirphl/card-transactions-generator/config"
	"github.com/amirphl/card-transactions-generator/encoder"
	"github.com/amirphl/card-transactions-generator/generator"
	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/repository"
	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application holds the wired components of one generator run
type Application struct {
	jobFlow   businessflow.JobFlow
	router    router.Router
	report    services.ReportService
	resources *resources
}

// Close stops the status server and releases every connection
func (a *Application) Close() {
	if a.router != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.router.Shutdown(ctx)
	}
	a.resources.Close()
}

// resources lazily opens the backing clients so that a run only connects to
// what its backends need.
type resources struct {
	cfg       *config.GeneratorConfig
	logger    *log.Logger
	db        *gorm.DB
	rc        *redis.Client
	dynamo    *dynamodb.Client
	stopFuncs []func()
}

func newResources(cfg *config.GeneratorConfig, logger *log.Logger) *resources {
	return &resources{cfg: cfg, logger: logger}
}

func (r *resources) Close() {
	for i := len(r.stopFuncs) - 1; i >= 0; i-- {
		r.stopFuncs[i]()
	}
	r.stopFuncs = nil
}

func (r *resources) database() (*gorm.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := initializeDatabase(r.cfg.Database, r.logger)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.stopFuncs = append(r.stopFuncs, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, nil
}

func (r *resources) cache(ctx context.Context) (*redis.Client, error) {
	if r.rc != nil {
		return r.rc, nil
	}
	rc, err := initializeCache(ctx, r.cfg.Cache, r.logger)
	if err != nil {
		return nil, err
	}
	r.rc = rc
	stop := startCacheHealthMonitor(ctx, rc, 30*time.Second, r.logger)
	r.stopFuncs = append(r.stopFuncs, stop, func() { _ = rc.Close() })
	return rc, nil
}

func (r *resources) dynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	if r.dynamo != nil {
		return r.dynamo, nil
	}
	client, err := services.NewDynamoDBClient(ctx, r.cfg.Partition)
	if err != nil {
		return nil, err
	}
	r.dynamo = client
	return client, nil
}

// partitionStore selects the coordination backend
func (r *resources) partitionStore(ctx context.Context) (repository.PartitionStore, error) {
	cfg := r.cfg.Partition
	switch cfg.Backend {
	case config.PartitionBackendDynamoDB:
		client, err := r.dynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Printf("Partition counters in DynamoDB table %s (%s)", cfg.TableName, cfg.Region)
		return repository.NewDynamoDBPartitionStore(client, cfg.TableName), nil
	case config.PartitionBackendPostgres:
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		if r.cfg.Database.AutoMigrate {
			if err := db.Table(cfg.TableName).AutoMigrate(&models.PartitionCounter{}); err != nil {
				return nil, fmt.Errorf("failed to migrate %s: %w", cfg.TableName, err)
			}
		}
		r.logger.Printf("Partition counters in Postgres table %s", cfg.TableName)
		return repository.NewPartitionCounterRepository(db, cfg.TableName), nil
	case config.PartitionBackendRedis:
		rc, err := r.cache(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Printf("Partition counters in Redis with prefix %q", r.cfg.Cache.RedisPrefix)
		return repository.NewRedisPartitionStore(rc, r.cfg.Cache.RedisPrefix), nil
	case config.PartitionBackendMemory:
		r.logger.Println("Partition counters kept in memory; orders are not shared with other jobs")
		return repository.NewMemoryPartitionStore(), nil
	}
	return nil, fmt.Errorf("unknown partition backend %q", cfg.Backend)
}

// hashPanReader returns nil when the reference pool is disabled
func (r *resources) hashPanReader(ctx context.Context) (repository.HashPanReader, error) {
	cfg := r.cfg.ReferencePool
	if !cfg.Enabled {
		r.logger.Println("Reference pool disabled; every thread uses synthetic references")
		return nil, nil
	}
	if cfg.Backend == config.PartitionBackendPostgres {
		db, err := r.database()
		if err != nil {
			return nil, err
		}
		return repository.NewHashPanRepository(db, cfg.TableName), nil
	}
	client, err := r.dynamoDB(ctx)
	if err != nil {
		return nil, err
	}
	return repository.NewDynamoDBHashPanRepository(client, cfg.TableName), nil
}

func (r *resources) objectStorage(ctx context.Context) (services.ObjectStorage, error) {
	if r.cfg.Storage.DryRun {
		r.logger.Println("Dry run: uploads are kept in memory")
		return services.NewMockObjectStorage(), nil
	}
	client, err := services.NewS3Client(ctx, r.cfg.Storage)
	if err != nil {
		return nil, err
	}
	return services.NewS3ObjectStorage(client), nil
}

// initializeApplication wires every component of a generate run
func initializeApplication(ctx context.Context, cfg *config.GeneratorConfig, runID string, logger *log.Logger) (*Application, error) {
	res := newResources(cfg, logger)
	fail := func(err error) (*Application, error) {
		res.Close()
		return nil, err
	}

	store, err := res.partitionStore(ctx)
	if err != nil {
		return fail(err)
	}
	reader, err := res.hashPanReader(ctx)
	if err != nil {
		return fail(err)
	}
	storage, err := res.objectStorage(ctx)
	if err != nil {
		return fail(err)
	}

	schemas, err := schema.LoadAll()
	if err != nil {
		return fail(err)
	}

	tracker := businessflow.NewTracker(runID, cfg.Job.JobID(), cfg.Job.JobIndex())
	partitionFlow := businessflow.NewPartitionFlow(store, logger)
	uploadFlow := businessflow.NewUploadFlow(storage, cfg.Upload.MaxAttempts, cfg.Upload.BaseDelay, nil, logger)
	referencePool := services.NewReferencePoolService(reader, cfg.ReferencePool.PoolSize, cfg.ReferencePool.RecordCount, logger)

	pipelineFlow := businessflow.NewPipelineFlow(
		schemas,
		generator.NewTableBuilder(generator.NewResolver()),
		encoder.NewParquetEncoder(),
		uploadFlow,
		referencePool,
		cfg.Storage,
		tracker,
		logger,
	)

	app := &Application{
		jobFlow:   businessflow.NewJobFlow(cfg.Job, runID, partitionFlow, pipelineFlow, tracker, logger, nil),
		report:    services.NewReportService(),
		resources: res,
	}

	if cfg.Metrics.Enabled {
		statusHandler := handlers.NewStatusHandler(tracker, partitionFlow, logger)
		app.router = router.NewFiberRouter(statusHandler, logger)
		app.router.SetupRoutes()
	}

	return app, nil
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, logger *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Printf("Redis connection established to %s (db=%d)", opt.Addr, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *log.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(monitorCtx, 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

type pyroscopeLogger struct{ logger *log.Logger }

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.logger.Printf("pyroscope: "+format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) {}
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.logger.Printf("pyroscope: "+format, args...) }

// startProfiler pushes continuous profiles of this job to Pyroscope
func startProfiler(cfg config.ProfilingConfig, job config.JobConfig, logger *log.Logger) (func(), error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.AppName,
		ServerAddress:   cfg.ServerAddress,
		Tags: map[string]string{
			"job_id":    job.JobID(),
			"job_index": fmt.Sprint(job.JobIndex()),
		},
		Logger: pyroscopeLogger{logger: logger},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pyroscope start failed: %w", err)
	}
	logger.Printf("Profiling to %s as %s", cfg.ServerAddress, cfg.AppName)
	return func() { _ = profiler.Stop() }, nil
}
