package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/di"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	err = run(app)
	app.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run 은 서버를 띄우고 종료 신호 또는 서버 오류가 날 때까지 기다린다.
func run(app *di.App) error {
	config.LogEnvStatus(app.Config, app.Logger)
	app.Logger.Info(
		"http_server_start",
		"host", app.Config.HTTP.Host,
		"port", app.Config.HTTP.Port,
		"http2", app.Config.HTTP.HTTP2Enabled,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.ListenAndServe()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	var err error
	select {
	case sig := <-signalCh:
		app.Logger.Info("http_server_shutdown_signal", "signal", sig.String())
		shutdown(app)
		err = <-serverErr
	case err = <-serverErr:
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Logger.Error("http_server_failed", "err", err)
		return err
	}
	return nil
}

// shutdown 은 유예 시간 안에 연결을 정리하고, 시간을 넘기면 강제 종료한다.
func shutdown(app *di.App) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Logger.Error("http_server_shutdown_failed", "err", err)
		_ = app.Server.Close()
	}
}
