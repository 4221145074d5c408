/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/orderbook/api"
	"github.com/tomoncle/orderbook/config"
	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/model"
	"github.com/tomoncle/orderbook/service"
	"github.com/tomoncle/orderbook/session"
	"github.com/tomoncle/orderbook/utils"
)

func main() {
	configPath := flag.String("config", "configs/orderbook.yaml", "path to the YAML config file")
	flag.Parse()

	log := utils.NewLogger("MAIN")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	if utils.ParseLogLevel(cfg.Log.Level) > utils.ParseLogLevel("info") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	dbLogger := database.NewLogger("DATABASE")
	manager := database.NewDatabaseManager(&cfg.Database)
	manager.SetLogger(dbLogger)
	model.Register(manager)

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		log.Fatalf("database: %v", err)
	}
	if cfg.Database.DataMigrateConfig.EnableMigrateOnStartup {
		if err := manager.RunMigrations(ctx); err != nil {
			_ = manager.Disconnect()
			log.Fatalf("migrations: %v", err)
		}
	}

	sessions := session.NewManagedSessionFactory(manager,
		session.WithAcquireTimeout(cfg.Database.ConnectionConfig.AcquireTimeout.Duration()),
		session.WithLogger(database.NewLogger("SESSION")),
	)
	svc := service.NewUserService(manager, sessions, database.NewLogger("SERVICE"))

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.NewRouter(svc, utils.NewLogger("HTTP")),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP shutdown: %v", err)
	}
	if err := manager.Disconnect(); err != nil {
		log.Errorf("database disconnect: %v", err)
	}
}
