package cmd

import (
	"context"
	"log"
	"os"

	"scorehub/core/bulk"
	"scorehub/core/config"
	"scorehub/core/database"
	"scorehub/core/logger"
	"scorehub/feature/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importBatchSize   int
	importStopOnError bool
	importDryRun      bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import users from a CSV file",
	Long: `Validates a user CSV file and creates the valid rows. Invalid rows are
reported with their row numbers and never block valid ones. With
--dry-run only the validation report is produced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		buf, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		svc := user.NewService(user.NewGormStore(db), nil, "", logg, cfg.Server.Tenant)
		ctx := context.Background()

		if importDryRun {
			report, err := svc.ValidateCSV(buf)
			if err != nil {
				return err
			}
			logg.Info("validation finished",
				zap.Int("rows", report.TotalRows),
				zap.Int("valid", report.ValidRows),
				zap.Int("errors", len(report.Errors)),
			)
			for _, e := range report.Errors {
				logg.Warn("invalid row",
					zap.Int("row", e.Row),
					zap.String("field", e.Field),
					zap.String("error", e.Message),
				)
			}
			return nil
		}

		result, err := svc.BulkImport(ctx, buf, bulk.Options{
			BatchSize:   importBatchSize,
			StopOnError: importStopOnError,
		})
		if err != nil {
			return err
		}

		logg.Info("import finished",
			zap.Int("rows", result.TotalRows),
			zap.Int("imported", result.Imported),
			zap.Int("failed", result.Failed),
			zap.Int("rejected", len(result.RowErrors)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 0, "executor batch size (0 = default)")
	importCmd.Flags().BoolVar(&importStopOnError, "stop-on-error", false, "abort on the first failed row")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate only, create nothing")
	RootCmd.AddCommand(importCmd)
}
