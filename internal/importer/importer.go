package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/liftplan/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SetsLogged        int
	SetsUnmatched     int
	SetsAlreadyLogged int
}

// Importer reads CSV training logs from a directory and logs the sets they
// contain against the matching scheduled sessions.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	userID int
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// processed on every run.
func New(db *storage.DB, state *StateDB, userID int, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, userID: userID, log: log, dryRun: dryRun}
}

// Import processes every .csv file under dir, oldest path first. A file that
// fails to parse is counted and skipped; the rest of the run continues.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, dir, path); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("import file failed", "path", path, "error", err)
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, root, path string) error {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing: %w", err)
		}
		done, err := imp.state.IsImported(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	sets, err := ParseCSV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for _, set := range sets {
		if err := imp.logSet(ctx, set); err != nil {
			return err
		}
	}

	imp.stats.FilesProcessed++
	if imp.state != nil && !imp.dryRun {
		if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
			return fmt.Errorf("recording state: %w", err)
		}
	}
	return nil
}

// logSet matches one performed set to the schedule and records its actuals.
// Unmatched sets are counted, not fatal: the export may cover exercises this
// user never scheduled.
func (imp *Importer) logSet(ctx context.Context, set LoggedSet) error {
	scheduled, err := imp.db.FindScheduledSet(ctx, imp.userID, set.Exercise, set.Date, set.Number)
	if err != nil {
		return fmt.Errorf("matching %s set %d on %s: %w",
			set.Exercise, set.Number, set.Date.Format("2006-01-02"), err)
	}
	if scheduled == nil {
		imp.stats.SetsUnmatched++
		imp.log.Warn("no scheduled set matches",
			"exercise", set.Exercise, "date", set.Date.Format("2006-01-02"), "set", set.Number)
		return nil
	}
	if !scheduled.Open {
		imp.stats.SetsAlreadyLogged++
		return nil
	}

	if imp.dryRun {
		imp.stats.SetsLogged++
		return nil
	}

	var logged bool
	switch scheduled.Kind {
	case "progression":
		logged, err = imp.db.LogWorkoutSet(ctx, scheduled.SessionID, set.Number, set.Reps, set.Weight, set.RPE, "")
	default:
		logged, err = imp.db.LogExerciseSet(ctx, scheduled.SessionID, set.Number, set.Reps, set.Weight, set.RPE, "")
	}
	if err != nil {
		return fmt.Errorf("logging %s set %d: %w", set.Exercise, set.Number, err)
	}
	if logged {
		imp.stats.SetsLogged++
	} else {
		imp.stats.SetsAlreadyLogged++
	}
	return nil
}
