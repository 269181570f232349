// Package tarwalk streams entries out of a gzip-compressed TAR archive
// without materializing the archive. Callers supply a match predicate that
// sees only each entry's base filename; matched regular files under the
// target directory are read in full and handed to an extraction callback.
package tarwalk

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/metrics"
)

var (
	// ErrCorruptHeader reports a short read on a header block when the
	// stream is not at a clean end of archive.
	ErrCorruptHeader = errors.New("corrupt archive: truncated header block")

	// ErrTruncatedContent reports that an entry declared more content
	// than the stream holds.
	ErrTruncatedContent = errors.New("corrupt archive: truncated entry content")

	// ErrStopWalk is returned by an ExtractFunc to end the walk early
	// after a successful extraction. Walk swallows it and returns nil.
	ErrStopWalk = errors.New("stop walk")
)

// MatchFunc decides, from an entry's base filename alone, whether the
// walker should materialize that entry's content.
type MatchFunc func(filename string) bool

// ExtractFunc receives a matched entry's full stored path and content.
// The content buffer is only valid for the duration of the call; the
// walker may reuse it for later entries. Returning ErrStopWalk ends the
// walk cleanly; any other error aborts it.
type ExtractFunc func(name string, content []byte) error

// Walk decompresses the stream and visits every archive entry in order.
// Unsafe paths are skipped with a warning before the predicate runs.
// Entries that are not regular files, not under targetDir, or rejected by
// match have their content blocks discarded. See ExtractFunc for the
// extraction contract.
func Walk(compressed io.Reader, targetDir string, match MatchFunc, extract ExtractFunc) error {
	gzr, err := gzip.NewReader(compressed)
	if err != nil {
		return errors.Wrap(err, "failed to open compressed stream")
	}
	defer gzr.Close()

	block := make([]byte, blockSize)
	for {
		n, err := io.ReadFull(gzr, block)
		if err == io.EOF {
			// Clean end of stream with no terminator block; some
			// writers truncate the trailing zero blocks.
			return nil
		}
		if err != nil || n != blockSize {
			return errors.Wrapf(ErrCorruptHeader, "read %d of %d header bytes", n, blockSize)
		}

		hdr := parseHeader(block)
		if hdr == nil {
			// Terminator: a second zero block follows by convention.
			// Consume it best effort and stop.
			_, _ = io.ReadFull(gzr, block)
			return nil
		}
		metrics.EntriesScanned.Inc()

		skip := contentBlocks(hdr.size) * blockSize

		if isUnsafePath(hdr.name) {
			log.Warn().Str("name", hdr.name).Msg("skipping potentially unsafe path")
			metrics.UnsafeSkipped.Inc()
			if err := discard(gzr, skip); err != nil {
				return err
			}
			continue
		}

		base := baseName(hdr.name)
		if !hdr.isRegular() || !inDirectory(hdr.name, targetDir) || base == "" || !match(base) {
			if err := discard(gzr, skip); err != nil {
				return err
			}
			continue
		}

		log.Debug().Str("name", hdr.name).Uint64("size", hdr.size).Msg("extracting entry")
		content := make([]byte, hdr.size)
		if _, err := io.ReadFull(gzr, content); err != nil {
			return errors.Wrapf(ErrTruncatedContent, "entry %s: %v", hdr.name, err)
		}
		metrics.EntriesExtracted.Inc()
		metrics.BytesExtracted.Add(float64(hdr.size))

		if err := extract(hdr.name, content); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}

		// Drop the zero padding up to the block boundary before the
		// next header.
		if err := discard(gzr, skip-hdr.size); err != nil {
			return err
		}
	}
}

// discard drains n content bytes; a short stream here means the archive
// lied about an entry size.
func discard(r io.Reader, n uint64) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return errors.Wrap(ErrTruncatedContent, err.Error())
	}
	return nil
}
