package plan

import (
	"fmt"
	"strings"
	"unicode"
)

// Format is the user-facing output format choice.
type Format string

const (
	FormatBestVideo Format = "best-video"
	FormatMP4       Format = "mp4"
	FormatMP4H264   Format = "mp4-h264+aac"
	FormatWebM      Format = "webm"
	FormatMKV       Format = "mkv"
	FormatBestAudio Format = "best-audio"
	FormatMP3       Format = "mp3"
	FormatM4A       Format = "m4a"
	FormatWAV       Format = "wav"
	FormatFLAC      Format = "flac"
)

// Formats lists every format in menu order.
var Formats = []Format{
	FormatBestVideo, FormatMP4, FormatMP4H264, FormatWebM, FormatMKV,
	FormatBestAudio, FormatMP3, FormatM4A, FormatWAV, FormatFLAC,
}

// IsAudio reports whether the format extracts audio only.
func (f Format) IsAudio() bool {
	switch f {
	case FormatBestAudio, FormatMP3, FormatM4A, FormatWAV, FormatFLAC:
		return true
	}
	return false
}

// Container returns the target file extension, or "" when the engine picks.
func (f Format) Container() string {
	switch f {
	case FormatBestVideo, FormatBestAudio:
		return ""
	case FormatMP4H264:
		return "mp4"
	default:
		return string(f)
	}
}

// ParseFormat returns the Format named by s. Punctuation and case are
// ignored, so menu labels such as "MP4 (H.264 + AAC)" are accepted.
func ParseFormat(s string) (Format, error) {
	key := alnum(s)
	switch key {
	case "best":
		key = "bestvideo"
	case "h264", "mp4h264":
		key = "mp4h264aac"
	case "audio":
		key = "bestaudio"
	}
	for _, f := range Formats {
		if alnum(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// Quality is the user-facing resolution choice.
type Quality string

const (
	QualityBest     Quality = "best"
	Quality4320     Quality = "4320p"
	Quality2160     Quality = "2160p"
	Quality1440     Quality = "1440p"
	Quality1080     Quality = "1080p"
	Quality720      Quality = "720p"
	Quality480      Quality = "480p"
	Quality360      Quality = "360p"
	QualitySmallest Quality = "smallest"
)

// Qualities lists every quality in menu order.
var Qualities = []Quality{
	QualityBest, Quality4320, Quality2160, Quality1440, Quality1080,
	Quality720, Quality480, Quality360, QualitySmallest,
}

// SortKey returns the format-sort key for the quality, or "" for best.
func (q Quality) SortKey() string {
	switch q {
	case QualityBest, "":
		return ""
	case QualitySmallest:
		return "+size"
	default:
		return "res:" + strings.TrimSuffix(string(q), "p")
	}
}

// ParseQuality returns the Quality named by s. A bare height such as "720"
// is accepted.
func ParseQuality(s string) (Quality, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key != "" && !strings.HasSuffix(key, "p") && key != string(QualityBest) && key != string(QualitySmallest) {
		key += "p"
	}
	for _, q := range Qualities {
		if string(q) == key {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality %q", s)
}
