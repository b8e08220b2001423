package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDue is the assignment deadline used when CSS_GRADER_DUE is unset.
const DefaultDue = "2025-10-01T23:59:59-04:00"

type Config struct {
	// grading run
	Dir             string // submission root
	HTMLFile        string // markup file relative to Dir
	OutDir          string // score.csv + feedback.md, relative to Dir unless absolute
	Due             time.Time
	RubricFile      string // optional YAML rubric
	HistoryWindow   int    // commits inspected
	StepSummary     string // GITHUB_STEP_SUMMARY
	Student         string // resolved identifier
	StudentSource   string // which setting produced Student
	EnableGradebook bool

	// identity inputs
	StudentOverride  string
	Repository       string
	Actor            string
	AssignmentPrefix string

	DBDriver string
	DBDSN    string

	// optional S3-compatible mirror of the output files
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool
	S3Prefix    string

	// serve
	HTTPAddr      string
	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt
	CORSOrigins   []string
}

// FromEnv builds the configuration once at the entry point. The returned
// error reports unparsable values; unset values take defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Dir:              envOr("CSS_GRADER_DIR", "."),
		HTMLFile:         envOr("CSS_GRADER_HTML", "index.html"),
		OutDir:           envOr("CSS_GRADER_OUT", "grading"),
		RubricFile:       os.Getenv("CSS_GRADER_RUBRIC"),
		StepSummary:      os.Getenv("GITHUB_STEP_SUMMARY"),
		EnableGradebook:  envBool("ENABLE_GRADEBOOK", false),
		StudentOverride:  strings.TrimSpace(os.Getenv("STUDENT_ID")),
		Repository:       strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY")),
		Actor:            strings.TrimSpace(os.Getenv("GITHUB_ACTOR")),
		AssignmentPrefix: strings.TrimSpace(os.Getenv("ASSIGNMENT_PREFIX")),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		S3Endpoint:       strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT")),
		S3AccessKey:      os.Getenv("ARTIFACT_S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("ARTIFACT_S3_SECRET_KEY"),
		S3Bucket:         envOr("ARTIFACT_S3_BUCKET", "grading"),
		S3Region:         os.Getenv("ARTIFACT_S3_REGION"),
		S3UseSSL:         envBool("ARTIFACT_S3_USE_SSL", true),
		S3Prefix:         os.Getenv("ARTIFACT_S3_PREFIX"),
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		AuthSecret:       envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:        envOr("ADMIN_USER", "admin"),
		AdminPassHash:    envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
	due, err := ParseDue(envOr("CSS_GRADER_DUE", DefaultDue))
	if err != nil {
		return Config{}, err
	}
	cfg.Due = due
	window, err := envInt("CSS_GRADER_HISTORY_WINDOW", 50)
	if err != nil {
		return Config{}, err
	}
	if window <= 0 {
		return Config{}, fmt.Errorf("CSS_GRADER_HISTORY_WINDOW must be positive, got %d", window)
	}
	cfg.HistoryWindow = window
	cfg.ResolveStudent()
	return cfg, nil
}

// ParseDue accepts RFC 3339 timestamps and, for convenience, a bare date
// meaning the end of that day in UTC.
func ParseDue(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if d, err := time.Parse("2006-01-02", v); err == nil {
		return d.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q: want RFC 3339, e.g. %s", v, DefaultDue)
}

// ResolveStudent sets Student from, in order of precedence: the explicit
// STUDENT_ID override, the student part of the repository name, the actor,
// and finally a placeholder.
func (c *Config) ResolveStudent() {
	switch {
	case c.StudentOverride != "":
		c.Student, c.StudentSource = c.StudentOverride, "STUDENT_ID"
	case studentFromRepository(c.Repository, c.AssignmentPrefix) != "":
		c.Student, c.StudentSource = studentFromRepository(c.Repository, c.AssignmentPrefix), "GITHUB_REPOSITORY"
	case c.Actor != "":
		c.Student, c.StudentSource = c.Actor, "GITHUB_ACTOR"
	default:
		c.Student, c.StudentSource = "unknown-student", "default"
	}
}

// studentFromRepository turns "org/css-basics-ada" into "ada" when the
// assignment prefix is "css-basics", or into "css-basics-ada" without one.
func studentFromRepository(repo, prefix string) string {
	name := repo
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if prefix != "" {
		p := strings.TrimSuffix(prefix, "-") + "-"
		if strings.HasPrefix(name, p) {
			name = strings.TrimPrefix(name, p)
		}
	}
	return strings.TrimSpace(name)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
