package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mind-engage/cssgrader/internal/autograde"
	"github.com/mind-engage/cssgrader/internal/config"
	"github.com/mind-engage/cssgrader/internal/db"
	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/storage"
)

func CommandGrade(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig(cmd)
	asJSON, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	r := &autograde.Runner{Config: cfg}
	if !asJSON {
		r.Console = os.Stdout
	}
	if cfg.EnableGradebook {
		dbh := mustOpenDB(ctx, cfg.DBDriver, cfg.DBDSN)
		defer dbh.Close()
		r.Gradebook = gradebook.NewSQLStore(dbh)
	}
	if mirror := mustOpenMirror(ctx, cfg); mirror != nil {
		r.Mirror = mirror
	}

	log.Printf("grading %s as %s (from %s), due %s",
		cfg.Dir, cfg.Student, cfg.StudentSource, cfg.Due.Format("2006-01-02 15:04 MST"))
	rep, err := r.Run(ctx)
	if err != nil {
		log.Fatalf("grading failed: %v", err)
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("encode result: %v", err)
		}
	}
	log.Printf("%s: %d/%d (%s), results in %s",
		rep.Student, rep.Result.Earned, rep.Result.Total, rep.Result.Status, autograde.OutputDir(cfg))
}

// mustOpenMirror returns nil when no S3 endpoint is configured.
func mustOpenMirror(ctx context.Context, cfg config.Config) *storage.MinIOStore {
	s3 := storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
		Prefix:    cfg.S3Prefix,
	}
	if !s3.Enabled() {
		return nil
	}
	m, err := storage.NewMinIOStore(s3)
	if err != nil {
		log.Fatalf("artifact mirror: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.EnsureBucket(ctx); err != nil {
		log.Fatalf("artifact mirror: %v", err)
	}
	return m
}

func mustOpenDB(ctx context.Context, driver, dsn string) *sql.DB {
	dbh, err := db.Open(ctx, db.Driver(driver), dsn)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	return dbh
}
