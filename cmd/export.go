package cmd

import (
	"context"
	"log"
	"os"

	"scorehub/core/config"
	"scorehub/core/database"
	"scorehub/core/logger"
	"scorehub/core/storage"
	"scorehub/feature/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOutput  string
	exportArchive bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export users as CSV",
	Long: `Renders every user of the configured tenant as CSV, to stdout or a
file. With --archive the file is also uploaded to the object store.`,
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

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		var store storage.Client
		if exportArchive {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
		}

		svc := user.NewService(user.NewGormStore(db), store, cfg.Storage.Bucket, logg, cfg.Server.Tenant)

		out, err := svc.ExportCSV(context.Background(), exportArchive)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = os.Stdout.WriteString(out)
			return err
		}

		if err := os.WriteFile(exportOutput, []byte(out), 0o644); err != nil {
			return err
		}
		logg.Info("export written", zap.String("file", exportOutput))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the CSV to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "also upload the export to the object store")
	RootCmd.AddCommand(exportCmd)
}
