package httpapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRange_FullySpecified(t *testing.T) {
	r, ok := parseRange("bytes=10-19", 100)
	require.True(t, ok)
	require.Equal(t, byteRange{Start: 10, End: 19}, r)
}

func TestParseRange_OpenEnded(t *testing.T) {
	r, ok := parseRange("bytes=90-", 100)
	require.True(t, ok)
	require.Equal(t, byteRange{Start: 90, End: 99}, r)
}

func TestParseRange_SuffixLength(t *testing.T) {
	r, ok := parseRange("bytes=-10", 100)
	require.True(t, ok)
	require.Equal(t, byteRange{Start: 90, End: 99}, r)
}

func TestParseRange_SuffixLargerThanFileClampsToStart(t *testing.T) {
	r, ok := parseRange("bytes=-1000", 100)
	require.True(t, ok)
	require.Equal(t, byteRange{Start: 0, End: 99}, r)
}

func TestParseRange_EndAtExactLastByteIsValid(t *testing.T) {
	r, ok := parseRange("bytes=0-99", 100)
	require.True(t, ok)
	require.Equal(t, byteRange{Start: 0, End: 99}, r)
}

func TestParseRange_EndEqualToSizeIsUnsatisfiable(t *testing.T) {
	_, ok := parseRange("bytes=0-100", 100)
	require.False(t, ok)
}

func TestParseRange_StartAfterEndIsInvalid(t *testing.T) {
	_, ok := parseRange("bytes=50-10", 100)
	require.False(t, ok)
}

func TestParseRange_MissingBytesPrefixIsInvalid(t *testing.T) {
	_, ok := parseRange("10-20", 100)
	require.False(t, ok)
}

func TestParseRange_EmptyFileIsInvalid(t *testing.T) {
	_, ok := parseRange("bytes=0-0", 0)
	require.False(t, ok)
}

func TestParseRange_BothEndpointsEmptyIsInvalid(t *testing.T) {
	_, ok := parseRange("bytes=-", 100)
	require.False(t, ok)
}

func TestParseRange_NonNumericIsInvalid(t *testing.T) {
	_, ok := parseRange("bytes=abc-100", 100)
	require.False(t, ok)
}
