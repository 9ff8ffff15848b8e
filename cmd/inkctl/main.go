package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/database"
	"github.com/d60-Lab/inkwell/pkg/logger"
)

// app is filled by the root command before any subcommand runs.
type app struct {
	cfg *config.Config
	db  *gorm.DB
	svc *service.Services
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:   "inkctl",
		Short: "inkwell admin CLI",
		Long: `inkctl manages the inkwell database from the shell: the bookshelf
(writers and books), migrations and notification housekeeping.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			logger.Sync()
			return database.Close(a.db)
		},
	}

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newWriterCmd(a))
	root.AddCommand(newBookCmd(a))
	root.AddCommand(newPurgeCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	a.cfg, a.db = cfg, db
	a.svc = service.NewServices(db, service.Options{JWT: auth.NewJWT(cfg.JWT)})
	return nil
}
