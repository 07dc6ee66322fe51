package main

import (
	"github.com/spf13/cobra"
	"github.com/talentpool/pipeline/internal/config"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/pkg/log"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		st := store.NewStore(db)
		defer st.Close()

		if err := st.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		zap.S().Info("db migrated")
		return nil
	},
}
