// Package selector finds the most recent daily log inside a sysdiagnose
// tar.gz archive and pulls the battery cycle fields out of it. Archive
// entries arrive in archive order over a forward-only stream, so the
// selector runs two walks: one to learn which filename carries the latest
// embedded timestamp, one to extract exactly that file.
package selector

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/csvdoc"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/datetag"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/metrics"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/tarwalk"
)

// Defaults for the sysdiagnose battery log layout.
const (
	DefaultTargetDir   = "logs/BatteryBDC/"
	DefaultPrefix      = "BDC_Daily_version"
	DefaultTimeColumn  = "TimeStamp"
	DefaultCycleColumn = "CycleCount"
)

// ErrNoMatch reports that no archive entry carried the expected filename
// prefix with a parsable timestamp.
var ErrNoMatch = errors.New("no matching file found")

// Config says where to look and what to read once found.
type Config struct {
	ArchivePath string
	TargetDir   string
	Prefix      string
	TimeColumn  string
	CycleColumn string
	MaxColumns  int
}

// Report holds the values extracted from the latest matching log.
type Report struct {
	Filename   string      `json:"filename"`
	Tag        datetag.Tag `json:"-"`
	TimeStamp  string      `json:"timestamp"`
	CycleCount string      `json:"cycle_count"`
}

// candidate tracks the best filename seen so far during discovery.
type candidate struct {
	name  string
	tag   datetag.Tag
	found bool
}

// FindLatest runs the two passes and returns the extracted report.
func FindLatest(cfg Config) (*Report, error) {
	best := candidate{}
	discover := func(base string) bool {
		rest, ok := strings.CutPrefix(base, cfg.Prefix)
		if !ok {
			return false
		}
		// The timestamp follows the first underscore after the
		// prefix, e.g. BDC_Daily_version1_2023-06-01_00:00:00.csv.
		i := strings.IndexByte(rest, '_')
		if i < 0 {
			return false
		}
		tag, err := datetag.Parse(rest[i+1:])
		if err != nil {
			log.Debug().Err(err).Str("filename", base).Msg("skipping candidate with bad date tag")
			return false
		}
		if !best.found || tag.After(best.tag) {
			best = candidate{name: base, tag: tag, found: true}
		}
		// Discovery never extracts; the winner is pulled in pass two.
		return false
	}

	if err := walkArchive(cfg, discover, nil); err != nil {
		return nil, err
	}
	if !best.found {
		return nil, errors.Wrapf(ErrNoMatch, "prefix %q under %q", cfg.Prefix, cfg.TargetDir)
	}
	log.Info().Str("filename", best.name).Msg("latest daily log found")

	var report *Report
	extract := func(name string, content []byte) error {
		opts := []csvdoc.Option{}
		if cfg.MaxColumns > 0 {
			opts = append(opts, csvdoc.WithMaxColumns(cfg.MaxColumns))
		}
		doc := csvdoc.New(content, opts...)

		ts, err := doc.Lookup(csvdoc.LastRow(), cfg.TimeColumn)
		if err != nil {
			return errors.Wrapf(err, "column %q in %s", cfg.TimeColumn, name)
		}
		cycles, err := doc.Lookup(csvdoc.LastRow(), cfg.CycleColumn)
		if err != nil {
			return errors.Wrapf(err, "column %q in %s", cfg.CycleColumn, name)
		}

		report = &Report{
			Filename:   best.name,
			Tag:        best.tag,
			TimeStamp:  ts,
			CycleCount: cycles,
		}
		return tarwalk.ErrStopWalk
	}

	if err := walkArchive(cfg, MatchExact(best.name), extract); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, errors.Wrapf(ErrNoMatch, "%q disappeared between passes", best.name)
	}
	return report, nil
}

// walkArchive opens the archive and runs one walker pass over it. The
// file handle is scoped to the pass; pass two reopens the archive.
func walkArchive(cfg Config, match tarwalk.MatchFunc, extract tarwalk.ExtractFunc) error {
	f, err := os.Open(cfg.ArchivePath)
	if err != nil {
		return errors.Wrapf(err, "cannot open archive %s", cfg.ArchivePath)
	}
	defer f.Close()

	if extract == nil {
		extract = func(string, []byte) error { return nil }
	}
	metrics.PassesRun.Inc()
	return tarwalk.Walk(f, cfg.TargetDir, match, extract)
}

// MatchExact accepts only the given base filename.
func MatchExact(name string) tarwalk.MatchFunc {
	return func(base string) bool { return base == name }
}

// MatchExtension accepts base filenames with the given extension,
// case-insensitively. The extension includes the dot, e.g. ".csv".
func MatchExtension(ext string) tarwalk.MatchFunc {
	return func(base string) bool {
		i := strings.LastIndexByte(base, '.')
		if i < 0 {
			return false
		}
		return strings.EqualFold(base[i:], ext)
	}
}
