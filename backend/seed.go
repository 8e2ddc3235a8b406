package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"replay/internal/contest"
	"replay/internal/ingest"
)

// seedDir loads a directory laid out like the static data site:
//
//	contests/contests.json   list of contests
//	tasks/<slug>.json        tasks of a contest (optional)
//	submissions/<slug>.json  submission log of a contest
//
// It returns the slugs whose submissions were stored.
func seedDir(ctx context.Context, db writer, dir string) ([]string, error) {
	var contests []contest.Contest
	if err := readJSON(filepath.Join(dir, "contests", "contests.json"), &contests); err != nil {
		return nil, err
	}

	var seeded []string
	for _, c := range contests {
		if err := db.SaveContest(ctx, c); err != nil {
			return seeded, err
		}

		var tasks []contest.Task
		err := readJSON(filepath.Join(dir, "tasks", c.Slug+".json"), &tasks)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return seeded, err
		default:
			for i := range tasks {
				tasks[i].ContestSlug = c.Slug
			}
			if err := db.SaveTasks(ctx, tasks); err != nil {
				return seeded, err
			}
		}

		f, err := os.Open(filepath.Join(dir, "submissions", c.Slug+".json"))
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No submissions for %s, skipping", c.Slug)
			continue
		}
		if err != nil {
			return seeded, err
		}
		subs, err := ingest.Decode(f)
		f.Close()
		if err != nil {
			return seeded, fmt.Errorf("%s: %w", c.Slug, err)
		}

		ingest.SortChronological(subs)
		kept := ingest.Window(subs, c)
		if err := db.SaveSubmissions(ctx, c.Slug, kept); err != nil {
			return seeded, err
		}
		fmt.Printf("Seeded %s: %d submissions (%d outside the contest window)\n", c.Slug, len(kept), len(subs)-len(kept))
		seeded = append(seeded, c.Slug)
	}
	return seeded, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
