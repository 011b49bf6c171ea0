package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitwise74/portal-api/app"
	"bitwise74/portal-api/config"
	"bitwise74/portal-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	app.MakeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := app.NewDeps(ctx)
	if err != nil {
		zap.L().Fatal("Failed to set up dependencies", zap.Error(err))
	}

	if *config.SweepOnce {
		n, err := d.Sweeper.Sweep(ctx, time.Now())
		if err != nil {
			zap.L().Fatal("Cleanup failed", zap.Error(err))
		}

		zap.L().Info("Cleanup done", zap.Int("deleted", n))
		return
	}

	if spec := viper.GetString("cleanup.schedule"); spec != "" {
		c, err := service.ScheduleSweep(spec, d.Sweeper)
		if err != nil {
			zap.L().Fatal("Failed to schedule cleanup", zap.Error(err))
		}
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler: app.NewRouter(ctx, d),
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		var err error
		if viper.GetBool("host.ssl.enabled") {
			err = srv.ListenAndServeTLS(viper.GetString("host.ssl.certificate_path"), viper.GetString("host.ssl.certificate_key_path"))
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
	}
}
