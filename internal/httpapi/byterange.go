package httpapi

import (
	"strconv"
	"strings"
)

// byteRange is an inclusive [Start, End] span within a file of total
// bytes.
type byteRange struct {
	Start, End int64
}

// parseRange parses an RFC 7233 "bytes=S-E" header value against a
// file of the given size. Either endpoint may be omitted: "bytes=-N"
// means the last N bytes, "bytes=S-" means from S to end of file. It
// returns ok=false for anything malformed or out of bounds (S>E,
// E>=size, or an empty file), in which case the caller falls back to
// a full 200 response instead of erroring.
func parseRange(header string, size int64) (r byteRange, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) || size == 0 {
		return r, false
	}
	spec := strings.TrimPrefix(header, prefix)
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return r, false
	}
	startStr, endStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if startStr == "" && endStr == "" {
		return r, false
	}

	var start, end int64
	if startStr == "" {
		suffix, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return r, false
		}
		if suffix > size {
			start = 0
		} else {
			start = size - suffix
		}
		end = size - 1
	} else {
		s, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return r, false
		}
		start = s
		if endStr == "" {
			end = size - 1
		} else {
			e, err := strconv.ParseInt(endStr, 10, 64)
			if err != nil {
				return r, false
			}
			end = e
		}
	}

	if start > end || end >= size {
		return r, false
	}
	return byteRange{Start: start, End: end}, true
}
