package tarwalk

import (
	"bytes"
	"time"
)

// blockSize is the TAR block size; headers and content padding are both
// aligned to it.
const blockSize = 512

// POSIX/UStar header field offsets within a 512-byte block.
const (
	offName     = 0
	lenName     = 100
	offSize     = 124
	lenSize     = 12
	offMtime    = 136
	lenMtime    = 12
	offChecksum = 148
	lenChecksum = 8
	offTypeflag = 156
	offMagic    = 257
	lenMagic    = 6
	offPrefix   = 345
	lenPrefix   = 155
)

// Entry type flags. Old tar writers leave the flag NUL for regular files.
const (
	typeRegular    = '0'
	typeRegularAlt = 0
)

// header is one decoded TAR entry header. Only name, typeflag, and size
// drive the walk; mtime and checksum are decoded for completeness and the
// checksum is not validated.
type header struct {
	name     string
	typeflag byte
	size     uint64
	modTime  time.Time
	checksum uint64
}

// isRegular reports whether the entry is a plain file.
func (h *header) isRegular() bool {
	return h.typeflag == typeRegular || h.typeflag == typeRegularAlt
}

// parseHeader decodes one 512-byte header block. A block whose name field
// is entirely NUL signals the end-of-archive terminator and yields nil.
func parseHeader(block []byte) *header {
	if block[offName] == 0 {
		return nil
	}

	h := &header{
		typeflag: block[offTypeflag],
		size:     ParseOctal(block[offSize : offSize+lenSize]),
		checksum: ParseOctal(block[offChecksum : offChecksum+lenChecksum]),
	}
	h.modTime = time.Unix(int64(ParseOctal(block[offMtime:offMtime+lenMtime])), 0)

	name := cString(block[offName : offName+lenName])
	// UStar archives split long paths into a 155-byte prefix joined to
	// the legacy 100-byte name field.
	if bytes.HasPrefix(block[offMagic:offMagic+lenMagic], []byte("ustar")) {
		if prefix := cString(block[offPrefix : offPrefix+lenPrefix]); prefix != "" {
			name = prefix + "/" + name
		}
	}
	h.name = name
	return h
}

// cString returns the bytes up to the first NUL as a string.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// contentBlocks returns how many 512-byte blocks hold the entry content,
// counting the zero-padded tail block.
func contentBlocks(size uint64) uint64 {
	return (size + blockSize - 1) / blockSize
}
