// Command flotacion serves the flotation silica predictor: a single-page
// form that feeds three process parameters to a pre-trained boosted-tree
// regression model and shows the predicted silica concentrate percentage.
package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/JosMR1003/aplicacion-flotacion/internal/config"
	"github.com/JosMR1003/aplicacion-flotacion/internal/model"
	"github.com/JosMR1003/aplicacion-flotacion/internal/server"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/log"
)

const configPath = "config.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.GetLogger().Error("configuración inválida", "error", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.Log.Level)
	logger := log.GetLoggerWithName("flotacion")

	// The model is loaded once here and injected into the server. A load
	// failure is not fatal: the UI starts in its warning state instead.
	loader := model.NewLoader(cfg.Model.Path)
	var reg server.Regressor
	if ensemble, err := loader.Load(); err == nil {
		reg = model.NewPredictor(ensemble)
	}

	app := &server.App{
		Reg:        reg,
		Components: server.DefaultComponents(),
		Logger:     log.GetLoggerWithName("server"),
	}
	srv := server.New(app, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("señal recibida", "signal", sig.String())
		if err := srv.Stop(); err != nil {
			logger.Error("apagado forzado", "error", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("el servidor terminó con error", "error", err)
			os.Exit(1)
		}
	}
}
