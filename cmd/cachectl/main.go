// cachectl inspects and maintains the mapposter on-disk cache directly,
// without a running server.
//
// Usage:
//
//	cachectl [-dir ./cache] stats
//	cachectl [-dir ./cache] [-type all|geocoding|osm|posters] clear
//	cachectl [-dir ./cache] cleanup
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"mapposter/pkg/cache"
)

var (
	cacheDir  = flag.String("dir", "./cache", "Cache root directory")
	clearType = flag.String("type", cache.ScopeAll, "Scope for the clear command")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cachectl [-dir DIR] [-type SCOPE] stats|clear|cleanup")
		os.Exit(2)
	}

	if err := runCommand(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "cachectl: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(cmd string) error {
	mgr, err := cache.NewManager(*cacheDir)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	switch cmd {
	case "stats":
		stats, err := mgr.Stats()
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		return printJSON(stats)

	case "clear":
		if !cache.ValidScope(*clearType) {
			return fmt.Errorf("invalid cache type %q (use: all, geocoding, osm, posters)", *clearType)
		}
		mgr.Clear(*clearType)
		fmt.Printf("Cleared %s cache\n", *clearType)
		return nil

	case "cleanup":
		removed := mgr.CleanupExpired()
		fmt.Printf("Removed %d expired files\n", removed)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
