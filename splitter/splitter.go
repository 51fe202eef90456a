// Package splitter drives a run: it reads features from a source, drops
// insignificant rings, cuts the remaining polylines and writes the segments
// to a sink in batched transactions.
package splitter

import (
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
	"github.com/geofabrik/LinestringsSplitter/geom"
	"github.com/geofabrik/LinestringsSplitter/logging"
	"github.com/geofabrik/LinestringsSplitter/sink"
	"github.com/geofabrik/LinestringsSplitter/source"
)

var log = logging.New("splitter")

// Config are the splitting and batching parameters of a run.
type Config struct {
	MinLength float64
	MaxLength float64
	// TransactionSize is the number of segments per transaction; once the
	// count exceeds it, the transaction is committed and a new one opened.
	// 0 means a single transaction for the whole run.
	TransactionSize int
}

// Splitter processes one source into one sink. Not safe for concurrent
// use; a run is strictly sequential.
type Splitter struct {
	src source.Source
	dst sink.Sink
	seg geom.Segmenter

	transactionSize int
	// txCount counts segments written since the last commit. It is shared
	// across all features of the run.
	txCount int
	txOpen  bool

	featuresRead    int
	ringsSkipped    int
	segmentsWritten int
	commits         int
}

func New(src source.Source, dst sink.Sink, measure geom.Measure, conf Config) *Splitter {
	return &Splitter{
		src: src,
		dst: dst,
		seg: geom.Segmenter{
			Measure:   measure,
			MinLength: conf.MinLength,
			MaxLength: conf.MaxLength,
		},
		transactionSize: conf.TransactionSize,
	}
}

// Run declares the output schema, processes every feature of the source in
// order and commits the open transaction at the end. Any error aborts the
// run; a failed final commit means the output must be considered truncated.
func (s *Splitter) Run() error {
	start := time.Now()

	if err := s.dst.CreateLayer(s.src.Schema()); err != nil {
		return errors.Wrap(err, "creating output layer")
	}

	for {
		feat, err := s.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading feature")
		}
		s.featuresRead++
		if err := s.splitFeature(feat); err != nil {
			return err
		}
	}

	if s.txOpen {
		if err := s.dst.Commit(); err != nil {
			return errors.Wrap(err, "final commit")
		}
		s.txOpen = false
		s.commits++
	}

	log.Info().
		Int("features", s.featuresRead).
		Int("rings_skipped", s.ringsSkipped).
		Int("segments", s.segmentsWritten).
		Int("commits", s.commits).
		Dur("took", time.Since(start)).
		Msg("split finished")
	return nil
}

// splitFeature unwraps the geometry: a single line is processed once, the
// members of a multi-line independently and in order. Empty geometries are
// skipped.
func (s *Splitter) splitFeature(f *feature.Feature) error {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return s.splitLine(f, g)
	case orb.MultiLineString:
		for _, line := range g {
			if err := s.splitLine(f, line); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	}
	return errors.Errorf("unsupported geometry type %T", f.Geometry)
}

func (s *Splitter) splitLine(f *feature.Feature, line orb.LineString) error {
	if len(line) == 0 {
		return nil
	}
	if s.seg.SkipRing(line) {
		s.ringsSkipped++
		return nil
	}
	for _, part := range s.seg.Split(line) {
		if err := s.write(f.Segment(part)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Splitter) write(f *feature.Feature) error {
	if !s.txOpen {
		if err := s.dst.Begin(); err != nil {
			return errors.Wrap(err, "starting transaction")
		}
		s.txOpen = true
	}
	if err := s.dst.Write(f); err != nil {
		return errors.Wrap(err, "writing segment")
	}
	s.segmentsWritten++
	s.txCount++
	if s.transactionSize > 0 && s.txCount > s.transactionSize {
		if err := s.dst.Commit(); err != nil {
			return errors.Wrap(err, "committing transaction")
		}
		s.commits++
		if err := s.dst.Begin(); err != nil {
			return errors.Wrap(err, "starting transaction")
		}
		s.txCount = 0
	}
	return nil
}
