// Command twinfixture writes a seeded demo database for local
// development and manual testing of the dashboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/twinlabs/twinsight/internal/db"
	"github.com/twinlabs/twinsight/internal/seed"
)

func main() {
	out := flag.String("out", "", "output database path")
	days := flag.Int("days", 90, "days of history to generate")
	users := flag.Int("users", 12, "number of users")
	src := flag.Int64("seed", 1, "random seed")
	flag.Parse()
	if *out == "" {
		fmt.Fprintln(os.Stderr, "usage: twinfixture -out <path> [-days N] [-users N] [-seed N]")
		os.Exit(1)
	}

	if err := os.Remove(*out); err != nil &&
		!errors.Is(err, os.ErrNotExist) {
		log.Fatalf("removing existing db: %v", err)
	}

	database, err := db.Open(*out)
	if err != nil {
		log.Fatalf("opening db: %v", err)
	}
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

	fmt.Printf("  %d users, %d twins\n", sum.Users, sum.Twins)
	fmt.Printf("  %d sessions, %d messages\n", sum.Sessions, sum.Messages)
	fmt.Printf("  %d documents, %d queries\n", sum.Documents, sum.Queries)
	fmt.Printf("Fixture DB written to %s\n", *out)
}
