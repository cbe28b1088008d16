package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"request-approval-backend/config"
	"request-approval-backend/initializers"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}
	svc, err := initializers.InitAllServices(ctx, conf)
	if err != nil {
		log.WithError(err).Fatal("service initialization failed")
	}
	app := initializers.NewApp(svc)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		if sqlDB, err := svc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	addr := fmt.Sprintf("%s:%d", conf.App.ListenAddr, conf.App.Port)
	log.WithField("addr", addr).Info("HTTP server starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Error("HTTP server stopped with error")
		cancel()
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
