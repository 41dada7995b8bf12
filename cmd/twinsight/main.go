package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/twinlabs/twinsight/internal/config"
	"github.com/twinlabs/twinsight/internal/db"
	"github.com/twinlabs/twinsight/internal/seed"
	"github.com/twinlabs/twinsight/internal/server"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

const (
	browserPollInterval = 100 * time.Millisecond
	browserPollAttempts = 60
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "seed":
			runSeed(os.Args[2:])
			return
		case "version", "--version", "-v":
			fmt.Printf("twinsight %s (commit %s, built %s)\n",
				version, commit, buildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	runServe(os.Args[1:])
}

func printUsage() {
	fmt.Printf(`twinsight %s - analytics dashboard for AI Twin workspaces

Serves usage metrics, engagement charts, retention cohorts, and an
activity feed over a local SQLite database of twin sessions.

Usage:
  twinsight [flags]          Start the server (default command)
  twinsight serve [flags]    Start the server (explicit)
  twinsight seed [flags]     Generate demo data into the database
  twinsight version          Show version information
  twinsight help             Show this help

Server flags:
  -host string        Host to bind to (default "127.0.0.1")
  -port int           Port to listen on (default 8090)
  -no-browser         Don't open browser on startup

Seed flags:
  -days int           Days of history to generate (default 90)
  -users int          Number of users (default 12)
  -seed int           Random seed (default 1)

Environment variables:
  TWINSIGHT_DATA_DIR   Data directory (database, config)
  TWINSIGHT_HOST       Host to bind to
  TWINSIGHT_PORT       Port to listen on

Data is stored in ~/.twinsight/ by default.
`, version)
}

func runServe(args []string) {
	cfg := mustLoadConfig(args)
	database := mustOpenDB(cfg)
	defer database.Close()

	port := server.FindAvailablePort(cfg.Host, cfg.Port)
	if port != cfg.Port {
		fmt.Printf("Port %d in use, using %d\n", cfg.Port, port)
	}
	cfg.Port = port

	srv := server.New(cfg, database,
		server.WithVersion(server.VersionInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		}),
	)

	url := fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	fmt.Printf("twinsight %s listening at %s\n", version, url)

	if !cfg.NoBrowser {
		go openBrowser(url)
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	days := fs.Int("days", 90, "days of history to generate")
	users := fs.Int("users", 12, "number of users")
	src := fs.Int64("seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	cfg, err := config.LoadMinimal()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("creating data dir: %v", err)
	}

	database := mustOpenDB(cfg)
	defer database.Close()

	sum, err := seed.Seed(database, seed.Options{
		Users: *users,
		Days:  *days,
		Now:   time.Now().UTC(),
		Rand:  rand.New(rand.NewSource(*src)),
	})
	if err != nil {
		log.Fatalf("seeding: %v", err)
	}
	fmt.Printf("Seeded %s: %d users, %d twins, %d sessions, %d messages\n",
		cfg.DBPath, sum.Users, sum.Twins, sum.Sessions, sum.Messages)
}

func mustLoadConfig(args []string) config.Config {
	fs := flag.NewFlagSet("twinsight", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			"Usage: twinsight [serve] [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	config.RegisterServeFlags(fs)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("creating data dir: %v", err)
	}
	return cfg
}

func mustOpenDB(cfg config.Config) *db.DB {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	return database
}

func openBrowser(url string) {
	for range browserPollAttempts {
		time.Sleep(browserPollInterval)
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32",
			"url.dll,FileProtocolHandler", url)
	default:
		return
	}
	_ = cmd.Run()
}
