// Command bookmarkd-admin provides operator actions over the durable
// state: inspect counts, reset failed records, prune the link cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bookmarkd/internal/platform/config"
	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/platform/store"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/linkcache"
	"bookmarkd/internal/services/state"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: bookmarkd-admin [flags] <command>

commands:
  status        show outcome counts by status
  reset-failed  flip failed records back to pending for reprocessing
  prune-cache   drop expired link cache entries

flags:
`)
	flag.PrintDefaults()
}

func main() {
	_ = godotenv.Load()

	fData := flag.String("data", "", "data directory for state and cache files")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	root := config.New()
	l := logger.Get()

	dataDir := *fData
	if dataDir == "" {
		dataDir = root.MayString("DATA_DIR", "./data")
	}

	ctx := context.Background()
	dir, err := store.Open(ctx, store.Config{Path: dataDir}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	switch cmd := flag.Arg(0); cmd {
	case "status":
		st, err := state.Open(dir)
		if err != nil {
			l.Fatal().Err(err).Msg("state open failed")
		}
		counts, err := st.Counts()
		if err != nil {
			l.Fatal().Err(err).Msg("counts failed")
		}
		for _, s := range []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusDone, domain.StatusFailed} {
			fmt.Printf("%-12s %d\n", s, counts[s])
		}
	case "reset-failed":
		st, err := state.Open(dir)
		if err != nil {
			l.Fatal().Err(err).Msg("state open failed")
		}
		n, err := st.ResetFailed()
		if err != nil {
			l.Fatal().Err(err).Msg("reset failed")
		}
		fmt.Printf("reset %d failed record(s) to pending\n", n)
	case "prune-cache":
		n, err := linkcache.New(dir).Prune()
		if err != nil {
			l.Fatal().Err(err).Msg("prune failed")
		}
		fmt.Printf("pruned %d expired cache entrie(s)\n", n)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}
