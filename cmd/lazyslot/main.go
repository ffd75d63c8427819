package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/cobra"
	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/lazyslot/internal/app"
	"github.com/yanet-platform/lazyslot/internal/monitoring/logger"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:   path.Base(os.Args[0]),
		Short: "Host of a lazily created shared session",
		Run: func(cmd *cobra.Command, args []string) {
			if err := exec(configPath); err != nil {
				fmt.Println(err.Error())
				os.Exit(1)
			}
		},
	}

	// Add a flag to specify the path to the config file.
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config file (required).")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic("Logic error: `config` flag not exists in the program")
	}

	if err := cmd.Execute(); err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func exec(configPath string) error {
	ctx := context.Background()

	config, err := app.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, shutdownLogger, err := logger.New(ctx, config.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		_ = shutdownLogger(context.Background())
	}()

	zlog.Info("starting lazyslot", log.Any("config", config))

	wg, ctx := errgroup.WithContext(ctx)

	// Wait for an interruption signal.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	wg.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-ch:
			return errors.New(s.String())
		}
	})

	host := app.New(config, zlog)
	wg.Go(func() error {
		return host.Run(ctx)
	})

	err = wg.Wait()
	zlog.Info("lazyslot stopped", log.NamedError("reason", err))
	return err
}
