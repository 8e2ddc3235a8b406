package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"replay/internal/contest"
	"replay/internal/ingest"
	"replay/internal/replay"
	"replay/internal/scoring"
	"replay/internal/standings"
)

type Opts struct {
	File      string   `short:"f" long:"file" description:"submission log (JSON array)" required:"true"`
	Users     []string `short:"u" long:"user" description:"user to replay, may be repeated"`
	Contest   string   `short:"c" long:"contest" description:"contest slug, selects scoring mode and final rescale"`
	Mode      string   `short:"m" long:"mode" description:"scoring mode (normal or inverted), overrides --contest"`
	Standings bool     `short:"s" long:"standings" description:"print the standings snapshot instead of rank charts"`
	At        string   `long:"at" description:"snapshot cursor, unix seconds or RFC3339" default:"9223372036854775807"`
	Tasks     []string `short:"t" long:"task" description:"task column for the snapshot, may be repeated"`
}

func (opts *Opts) mode() (scoring.Mode, error) {
	if opts.Mode != "" {
		return scoring.ParseMode(opts.Mode)
	}
	return contest.NewRegistry().ModeFor(opts.Contest), nil
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	mode, err := opts.mode()
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(opts.File)
	if err != nil {
		log.Fatal(err)
	}
	subs, err := ingest.Decode(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	ingest.SortChronological(subs)
	if ratio, ok := contest.Rescale(opts.Contest); ok {
		ingest.Rescale(subs, ratio)
	}

	var out any
	if opts.Standings {
		cursor, err := standings.ParseCursor(opts.At)
		if err != nil {
			log.Fatal(err)
		}
		out = standings.Snapshot(subs, cursor, mode, opts.Tasks)
	} else {
		if len(opts.Users) == 0 {
			log.Fatal("at least one --user is required")
		}
		seqs, err := replay.Many(opts.Users, subs, mode)
		if err != nil {
			log.Fatal(err)
		}
		for _, seq := range seqs {
			if !seq.Known {
				fmt.Fprintf(os.Stderr, "%s has no submissions\n", seq.User)
			}
		}
		out = seqs
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}
