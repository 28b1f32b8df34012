package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"mp4":               FormatMP4,
		"MP4 (H.264 + AAC)": FormatMP4H264,
		"mp4-h264+aac":      FormatMP4H264,
		"best video":        FormatBestVideo,
		"best":              FormatBestVideo,
		"Best Audio":        FormatBestAudio,
		"flac":              FormatFLAC,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := ParseFormat(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseFormat("avi")
	assert.Error(t, err)
}

func TestParseQuality(t *testing.T) {
	got, err := ParseQuality("720")
	require.NoError(t, err)
	assert.Equal(t, Quality720, got)

	got, err = ParseQuality("Smallest")
	require.NoError(t, err)
	assert.Equal(t, QualitySmallest, got)

	_, err = ParseQuality("999p")
	assert.Error(t, err)
}

func TestFormat_IsAudio(t *testing.T) {
	audio := 0
	for _, f := range Formats {
		if f.IsAudio() {
			audio++
		}
	}
	assert.Equal(t, 5, audio)
}
