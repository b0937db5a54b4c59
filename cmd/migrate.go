package cmd

import (
	"fmt"

	"github.com/casetrail/evidence-api/internal/database"
	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/pkg/config"
	"github.com/spf13/cobra"
)

// migratedModels lists every model the schema is derived from, in
// creation order
var migratedModels = []any{
	&models.EvidenceSession{},
	&models.Turn{},
	&models.Bookmark{},
}

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the CaseTrail Evidence API.

The schema is derived from the GORM models for evidence sessions,
conversation turns, and bookmarks.

Available subcommands:
  up      - Apply the schema to the database
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema to the database",
	Long: `Create or update the database schema.

This command runs GORM auto-migration for all models, creating any
missing tables, columns, and indexes. Existing data is preserved.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows which tables exist
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	Long: `Display which model tables currently exist in the database.

Tables listed as missing will be created by "migrate up".`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openMigrationDB() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		for _, model := range migratedModels {
			fmt.Printf("Would migrate %T\n", model)
		}
		return nil
	}

	db, err := openMigrationDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(migratedModels...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("Schema is up to date")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openMigrationDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close() }()

	fmt.Println("Database Schema Status")
	fmt.Println("======================")

	migrator := db.DB.Migrator()
	for _, model := range migratedModels {
		state := "missing"
		if migrator.HasTable(model) {
			state = "present"
		}
		fmt.Printf("  %-30T %s\n", model, state)
	}

	return nil
}
