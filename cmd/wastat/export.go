package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/wastat/internal/config"
	"github.com/Zuo-Peng/wastat/internal/filter"
	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/scan"
)

// env is what every export command needs: config plus a parser reading
// timestamps in the configured zone.
type env struct {
	cfg    *config.Config
	loc    *time.Location
	parser *parse.Parser
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		loc:    loc,
		parser: &parse.Parser{Location: loc},
	}, nil
}

func (e *env) parseExport(path string) (*parse.ParseResult, error) {
	start := time.Now()
	result, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug().
		Str("path", path).
		Int("lines", result.Meta.Lines).
		Int("messages", len(result.Messages)).
		Dur("took", time.Since(start)).
		Msg("parsed export")
	return result, nil
}

// loadIndex parses one export, or every export under a directory, into a
// fresh in-memory index.
func (e *env) loadIndex(path string) (*index.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	db, err := index.OpenMemory()
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		files, err := scan.ScanExports(path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("scan: %w", err)
		}
		stats := index.IndexExports(db, e.parser, files)
		log.Debug().Str("root", path).Stringer("stats", stats).Msg("indexed exports")
		return db, nil
	}

	result, err := e.parseExport(path)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := index.LoadChat(db, path, scan.ChatName(path), result); err != nil {
		db.Close()
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	return db, nil
}

// filterFlags are the participant/date/type flags shared by analyze and messages.
type filterFlags struct {
	participant string
	since       string
	until       string
	types       string
}

func (f *filterFlags) register(cmd *cobra.Command, withTypes bool) {
	cmd.Flags().StringVar(&f.participant, "participant", "", `Only messages from this sender ("all" = everyone)`)
	cmd.Flags().StringVar(&f.since, "since", "", "Only messages on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.until, "until", "", "Only messages on or before this date (YYYY-MM-DD)")
	if withTypes {
		cmd.Flags().StringVar(&f.types, "type", "", "Only these message types, comma-separated (text,image,audio,video,sticker,gif,system,deleted)")
	}
}

func (f *filterFlags) options(loc *time.Location) (filter.Options, error) {
	since, err := filter.ParseDate(f.since, loc, false)
	if err != nil {
		return filter.Options{}, fmt.Errorf("--since: %w", err)
	}
	until, err := filter.ParseDate(f.until, loc, true)
	if err != nil {
		return filter.Options{}, fmt.Errorf("--until: %w", err)
	}
	types, err := filter.ParseTypes(f.types)
	if err != nil {
		return filter.Options{}, fmt.Errorf("--type: %w", err)
	}
	return filter.Options{
		Participant: f.participant,
		Since:       since,
		Until:       until,
		Types:       types,
	}, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
