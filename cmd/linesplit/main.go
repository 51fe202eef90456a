// linesplit reads linear features from a vector dataset, drops
// insignificant closed rings and splits the remaining polylines into
// segments of bounded length.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	linesplitter "github.com/geofabrik/LinestringsSplitter"
	"github.com/geofabrik/LinestringsSplitter/config"
	"github.com/geofabrik/LinestringsSplitter/geom"
	"github.com/geofabrik/LinestringsSplitter/logging"
	"github.com/geofabrik/LinestringsSplitter/sink"
	_ "github.com/geofabrik/LinestringsSplitter/sink/postgis"
	"github.com/geofabrik/LinestringsSplitter/source"
	"github.com/geofabrik/LinestringsSplitter/splitter"
)

func main() {
	// connection settings like PGHOST may come from a local .env
	godotenv.Load()

	conf, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if err != config.ErrHelp {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
	logging.Setup(conf.Quiet)
	log := logging.New("linesplit")
	log.Info().Str("version", linesplitter.Version).Msg("starting")

	src, err := source.Open(conf.Input, source.Options{TagFields: conf.TagFields})
	if err != nil {
		log.Fatal().Err(err).Str("input", conf.Input).Msg("opening input")
	}
	defer src.Close()

	geographic := src.Geographic() || conf.Geographic

	dst, err := sink.Open(conf.Format, sink.Config{
		Path:           conf.Output,
		LayerName:      source.LayerName(conf.Input),
		Geographic:     geographic,
		DatasetOptions: conf.DatasetOptions,
		LayerOptions:   conf.LayerOptions,
	})
	if err != nil {
		log.Fatal().Err(err).Str("format", conf.Format).Msg("opening output")
	}

	sp := splitter.New(src, dst, geom.Measure{Geographic: geographic}, splitter.Config{
		MinLength:       conf.MinLength,
		MaxLength:       conf.MaxLength,
		TransactionSize: conf.TransactionSize,
	})
	if err := sp.Run(); err != nil {
		dst.Close()
		log.Fatal().Err(err).Msg("split failed")
	}
	if err := dst.Close(); err != nil {
		log.Fatal().Err(err).Msg("closing output")
	}
}
