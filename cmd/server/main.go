package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/api/handler"
	"github.com/PisamaTech/PisamaApp-sub001/internal/api/router"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/database"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	applogger "github.com/PisamaTech/PisamaApp-sub001/pkg/logger"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
)

func main() {
	// 1. Cargar configuración
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error cargando configuración: %v\n", err)
		os.Exit(1)
	}

	// 2. Inicializar logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error inicializando logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando aplicación...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Conectar a la base de datos
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("error conectando a la base de datos", zap.Error(err))
	}
	logger.Info("conexión a la base de datos establecida")

	// 3.1 Ejecutar migraciones
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("error obteniendo el sql.DB subyacente", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("error ejecutando migraciones", zap.Error(err))
	}

	// 4. Conectar a Redis (opcional: si falla se degrada sin interrumpir
	// el arranque; la lista negra de tokens y el transporte de eventos
	// Redis quedan deshabilitados)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("conexión a Redis fallida, se arranca en modo degradado", zap.Error(err))
		rdb = nil
	}

	// 5. Fuente de eventos: Redis en producción, memoria como degradación
	var fuente notify.FuenteEventos
	if rdb != nil {
		fuente = notify.NuevaFuenteRedis(rdb, logger)
	} else {
		fuente = notify.NuevaFuenteMemoria()
	}

	// 6. Inyección de dependencias: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, fuente, logger)
	h := handler.NewHandler(svc)

	// 7. Enrutador
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. Servidor HTTP con cierre ordenado
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("falla del servidor HTTP", zap.Error(err))
		}
	}()

	// 9. Esperar señal de apagado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("señal de apagado recibida, cerrando...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error en el cierre del servidor", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("servidor detenido")
}
