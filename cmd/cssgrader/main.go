package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/mind-engage/cssgrader/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.SetFlags(log.LstdFlags)

	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "grade the stylesheet in a submission directory",
		Args:  cobra.NoArgs,
		Run:   CommandGrade,
	}
	addGradeFlags(gradeCmd)

	root := &cobra.Command{
		Use:   "cssgrader",
		Short: "automated grader for the CSS selectors assignment",
		Args:  cobra.NoArgs,
		Run:   CommandGrade,
	}
	addGradeFlags(root)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the instructor HTTP API",
		Args:  cobra.NoArgs,
		Run:   CommandServe,
	}
	serveCmd.Flags().String("addr", "", "listen address (default $HTTP_ADDR or :8080)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("cssgrader " + version)
		},
	}

	root.AddCommand(gradeCmd, serveCmd, versionCmd)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func addGradeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("dir", "", "submission directory (default $CSS_GRADER_DIR or .)")
	f.String("html", "", "markup file relative to --dir (default index.html)")
	f.String("out", "", "output directory (default grading)")
	f.String("due", "", "deadline, RFC 3339")
	f.String("rubric", "", "YAML rubric overriding weights and marks")
	f.Bool("json", false, "print the full result as JSON")
}

// mustLoadConfig builds the configuration from env and lets flags override.
func mustLoadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	f := cmd.Flags()
	if v, _ := f.GetString("dir"); v != "" {
		cfg.Dir = v
	}
	if v, _ := f.GetString("html"); v != "" {
		cfg.HTMLFile = v
	}
	if v, _ := f.GetString("out"); v != "" {
		cfg.OutDir = v
	}
	if v, _ := f.GetString("rubric"); v != "" {
		cfg.RubricFile = v
	}
	if v, _ := f.GetString("due"); v != "" {
		due, err := config.ParseDue(v)
		if err != nil {
			log.Fatalf("--due: %v", err)
		}
		cfg.Due = due
	}
	if v, _ := f.GetString("addr"); v != "" {
		cfg.HTTPAddr = v
	}
	return cfg
}
