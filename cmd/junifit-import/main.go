package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/heraheo/JuniFit-sub000/internal/config"
	"github.com/heraheo/JuniFit-sub000/internal/importer"
	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("dir", "", "directory of workout export files (.csv)")
	login := flag.String("profile", "", "login of the profile to import into")
	force := flag.Bool("force", false, "re-import files even if already recorded in state db")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("junifit-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" || *login == "" {
		fmt.Fprintf(os.Stderr, "Usage: junifit-import -profile <login> -dir <export dir> [-config path] [-force]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profile, err := db.GetProfileByLogin(ctx, *login)
	if err != nil {
		log.Error("profile not found", "login", *login, "error", err)
		os.Exit(1)
	}

	// State database lives next to the user's other dotfiles
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := importer.OpenStateDB(filepath.Join(homeDir, ".junifit-import"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	imp := importer.New(db, log)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Error("failed to read export directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	var imported, skipped, errored int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			log.Error("stat failed", "file", entry.Name(), "error", err)
			errored++
			continue
		}
		hash, err := importer.HashFile(path)
		if err != nil {
			log.Error("hash failed", "file", entry.Name(), "error", err)
			errored++
			continue
		}

		if !*force {
			done, err := state.IsImported(entry.Name(), info.Size(), hash)
			if err != nil {
				log.Error("state check failed", "file", entry.Name(), "error", err)
				errored++
				continue
			}
			if done {
				skipped++
				continue
			}
		}

		f, err := os.Open(path)
		if err != nil {
			log.Error("open failed", "file", entry.Name(), "error", err)
			errored++
			continue
		}
		result, err := imp.Import(ctx, f, profile.ID)
		f.Close()
		if err != nil {
			log.Error("import failed", "file", entry.Name(), "error", err)
			errored++
			continue
		}

		if err := state.MarkImported(entry.Name(), info.Size(), hash); err != nil {
			log.Warn("state update failed", "file", entry.Name(), "error", err)
		}
		log.Info("file imported",
			"file", entry.Name(),
			"sessions", result.SessionsImported,
			"sets", result.SetsImported,
			"newExercises", result.ExercisesCreated,
		)
		imported++
	}

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files imported: %d\n", imported)
	fmt.Printf("  Files skipped:  %d (already imported)\n", skipped)
	fmt.Printf("  Files errored:  %d\n", errored)
	fmt.Println()

	if errored > 0 {
		os.Exit(1)
	}
}
