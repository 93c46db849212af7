package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getProviderBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_provider_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	listProvidersHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_providers"
	updateTemplateHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_template"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/migrations"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/ledger"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	bookSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	listProvidersUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/list_providers"
	updateTemplateUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_template"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const serializationRetries = 3

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены).
	// Интерфейсы остаются nil при выключенных метриках.
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
		ledgerMetrics    ledger.Metrics
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		ledgerMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Обёртка над БД собирает метрики запросов и пула соединений
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		cfg.UserService.RateLimit,
		cfg.UserService.MaxParallel,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds rate=%.1f/s)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.UserService.RateLimit)

	// Инициализируем репозитории
	providerRepository := providerRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB).WithRetries(serializationRetries)

	// Инициализируем сервисы
	location := cfg.Schedule.Location()
	expander := schedule.NewExpander(cfg.Schedule.SlotDurationMinutes)

	ledgerSvc := ledger.NewService(
		providerRepository,
		slotRepository,
		bookingRepository,
		expander,
		txMgr,
		ledgerMetrics,
		log,
	)
	bookingSvc := bookingsService.NewService(ledgerSvc, log)

	// Инициализируем use cases
	listProvidersUseCase := listProvidersUC.NewUseCase(
		ledgerSvc,
		userClient,
		location,
		cfg.UserService.MaxParallel,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(ledgerSvc, location, log)
	updateTemplateUseCase := updateTemplateUC.NewUseCase(
		ledgerSvc,
		userClient,
		location,
		cfg.Schedule.HorizonDays,
		log,
	)
	bookSlotUseCase := bookSlotUC.NewUseCase(ledgerSvc, userClient, location, log)

	// Инициализируем handlers
	listProviders := listProvidersHandler.NewHandler(listProvidersUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	updateTemplate := updateTemplateHandler.NewHandler(updateTemplateUseCase, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)

	// Фоновое продление горизонта слотов
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	extender := scheduler.NewHorizonExtender(ledgerSvc, location, cfg.Schedule.HorizonDays, log)
	var jobs *scheduler.Scheduler

	if cfg.Scheduler.Enabled {
		appended, failed := extender.Run(appCtx)
		log.Info("Initial horizon extension: appended=%d, failed=%d", appended, failed)

		jobs, err = scheduler.New(location, log)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
		if _, err := jobs.AddJob("horizon-extension", cfg.Scheduler.HorizonCron, extender.Task(appCtx)); err != nil {
			log.Fatal("Failed to register horizon job: %v", err)
		}
		jobs.Start()
		log.Info("Scheduler started (horizon_cron=%q)", cfg.Scheduler.HorizonCron)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты требуют X-User-ID и X-User-Role
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Врачи и расписание ---
	protected.HandleFunc("/providers", listProviders.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/template", updateTemplate.Handle).Methods(http.MethodPut)

	// --- Записи ---
	protected.HandleFunc("/providers/{providerId}/bookings", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/bookings/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopApp()
	if jobs != nil {
		if err := jobs.Stop(); err != nil {
			log.Error("Scheduler shutdown failed: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
