// Package plan turns a download configuration and a queue item into the
// concrete instructions handed to the extraction engine.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/queue"
)

// DefaultTemplate names files after the title and the site's video ID.
const DefaultTemplate = "%(title)s [%(id)s]"

// YouTubeExtractorArgs requests DASH-only formats from YouTube.
const YouTubeExtractorArgs = "youtube:formats=dashy"

// Audio post-processing always asks for the best encoder quality.
const audioQuality = "0"

// Configuration is the user's download settings. It is a value type; a run
// works on the copy taken when it started.
type Configuration struct {
	Destination      string  `json:"destination"`
	FilenameTemplate string  `json:"filename_template"`
	Format           Format  `json:"format"`
	Quality          Quality `json:"quality"`
}

// DefaultConfiguration returns the settings used when nothing is configured.
func DefaultConfiguration() Configuration {
	dest := "."
	if home, err := os.UserHomeDir(); err == nil {
		dest = filepath.Join(home, "Downloads")
	}
	return Configuration{
		Destination:      dest,
		FilenameTemplate: DefaultTemplate,
		Format:           FormatMP4,
		Quality:          Quality1080,
	}
}

// Template returns the filename template, falling back to DefaultTemplate when
// it is blank.
func (c Configuration) Template() string {
	if strings.TrimSpace(c.FilenameTemplate) == "" {
		return DefaultTemplate
	}
	return c.FilenameTemplate
}

// ProcessorKind identifies a post-processing step.
type ProcessorKind string

const (
	// Remux rewraps the merged streams into Container without re-encoding.
	Remux ProcessorKind = "remux"
	// ExtractAudio converts the download to an audio-only file.
	ExtractAudio ProcessorKind = "extract-audio"
)

// PostProcessor is one step run by the engine after downloading.
type PostProcessor struct {
	Kind      ProcessorKind `json:"kind"`
	Container string        `json:"container,omitempty"`
	Codec     string        `json:"codec,omitempty"`
	Quality   string        `json:"quality,omitempty"`
}

// Spec is everything the engine needs to download one item.
type Spec struct {
	Source              media.Source    `json:"source"`
	OutputTemplate      string          `json:"output_template"`
	Format              string          `json:"format,omitempty"`
	FormatSort          []string        `json:"format_sort,omitempty"`
	MergeOutputFormat   string          `json:"merge_output_format,omitempty"`
	PostProcessors      []PostProcessor `json:"post_processors,omitempty"`
	ConcurrentFragments int             `json:"concurrent_fragments"`
	FFmpegLocation      string          `json:"ffmpeg_location,omitempty"`
	ExtractorArgs       []string        `json:"extractor_args,omitempty"`
	NoPlaylist          bool            `json:"no_playlist"`
	IgnoreErrors        bool            `json:"ignore_errors"`
}

// audioSelectors prefers a native stream in the target codec before falling
// back to any best audio.
var audioSelectors = map[Format]string{
	FormatBestAudio: "ba/b",
	FormatMP3:       "ba[acodec^=mp3]/ba/b",
	FormatM4A:       "ba[acodec^=aac]/ba[acodec^=mp4a.40.]/ba/b",
	FormatWAV:       "ba/b",
	FormatFLAC:      "ba/b",
}

// h264SortKeys prefer H.264 video with AAC audio for maximum compatibility.
var h264SortKeys = []string{"vcodec:h264", "lang", "quality", "res", "fps", "hdr:12", "acodec:aac"}

// Planner builds Specs. The zero value is usable.
type Planner struct {
	// Fragments is the number of fragments downloaded in parallel.
	// Zero means one per CPU.
	Fragments int
	// FFmpegLocation is passed through to the engine when set.
	FFmpegLocation string
}

// Plan builds the Spec for item under cfg. It has no side effects and
// returns the same Spec for the same inputs.
func (p Planner) Plan(cfg Configuration, item queue.Item) Spec {
	spec := Spec{
		Source:              item.Source,
		OutputTemplate:      filepath.Join(cfg.Destination, cfg.Template()+".%(ext)s"),
		ConcurrentFragments: p.fragments(),
		FFmpegLocation:      p.FFmpegLocation,
		ExtractorArgs:       []string{YouTubeExtractorArgs},
		NoPlaylist:          true,
		IgnoreErrors:        true,
	}

	container := cfg.Format.Container()

	if cfg.Format.IsAudio() {
		spec.Format = audioSelectors[cfg.Format]
		codec := container
		if codec == "" {
			codec = "best"
		}
		spec.PostProcessors = []PostProcessor{{Kind: ExtractAudio, Codec: codec, Quality: audioQuality}}
		return spec
	}

	if key := cfg.Quality.SortKey(); key != "" {
		spec.FormatSort = append(spec.FormatSort, key)
	}
	if container != "" {
		if cfg.Format == FormatMP4H264 {
			spec.FormatSort = append(spec.FormatSort, h264SortKeys...)
		}
		spec.PostProcessors = []PostProcessor{{Kind: Remux, Container: container}}
		spec.MergeOutputFormat = container
	}
	return spec
}

func (p Planner) fragments() int {
	if p.Fragments > 0 {
		return p.Fragments
	}
	return runtime.NumCPU()
}

// EnsureDestination creates the destination directory if needed.
func EnsureDestination(cfg Configuration) error {
	if err := os.MkdirAll(cfg.Destination, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", cfg.Destination, err)
	}
	return nil
}
