package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	api "github.com/mind-engage/cssgrader/internal/api/http"
	"github.com/mind-engage/cssgrader/internal/auth"
	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/grading"
)

func CommandServe(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh := mustOpenDB(ctx, cfg.DBDriver, cfg.DBDSN)
	defer dbh.Close()

	g := grading.NewGrader()
	if cfg.RubricFile != "" {
		rub, err := grading.LoadRubric(cfg.RubricFile)
		if err != nil {
			log.Fatalf("rubric: %v", err)
		}
		g = grading.NewGrader(rub.Options()...)
	}

	h := api.NewRouter(&api.Server{
		Grader:      g,
		Scores:      gradebook.NewSQLStore(dbh),
		Events:      gradebook.NewEventRepo(dbh),
		Auth:        auth.NewAuthService(cfg.AuthSecret),
		Credentials: auth.Credentials{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		CORSOrigins: cfg.CORSOrigins,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(s.ListenAndServe())
}
