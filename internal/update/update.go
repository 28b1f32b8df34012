// Package update checks whether a newer release has been published.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultURL redirects to the page of the latest release.
const DefaultURL = "https://github.com/vmunix/viddown/releases/latest"

// DefaultTimeout bounds the whole check.
const DefaultTimeout = 10 * time.Second

// ErrNoVersion is returned when the release URL does not end in a version tag.
var ErrNoVersion = errors.New("no version in release url")

var tagRegex = regexp.MustCompile(`v(\d+\.\d+\.\d+)$`)

// Version is a numeric major.minor.patch version.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses "1.2.3" or "v1.2.3".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("parse version %q: want major.minor.patch", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("parse version %q: bad component %q", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than o.
// Components compare numerically, so 1.10.0 is newer than 1.9.0.
func (v Version) Compare(o Version) int {
	for _, d := range [3]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Release is the latest published release.
type Release struct {
	Version Version
	URL     string
}

// Checker probes the release URL.
type Checker struct {
	url     string
	current string
	client  *http.Client
	logger  *slog.Logger
}

// NewChecker creates a checker for the running version current.
// A nil client uses one with DefaultTimeout.
func NewChecker(url, current string, client *http.Client, logger *slog.Logger) *Checker {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{url: url, current: current, client: client, logger: logger}
}

// Current returns the version the checker compares against.
func (c *Checker) Current() string {
	return c.current
}

// Latest follows the release redirect and reads the version from the final URL.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("fetch %s: status %d", c.url, resp.StatusCode)
	}

	final := resp.Request.URL
	m := tagRegex.FindStringSubmatch(strings.TrimRight(final.Path, "/"))
	if m == nil {
		return Release{}, fmt.Errorf("%s: %w", final, ErrNoVersion)
	}
	v, err := ParseVersion(m[1])
	if err != nil {
		return Release{}, err
	}
	return Release{Version: v, URL: final.String()}, nil
}

// Check reports whether the latest release is newer than the running version.
func (c *Checker) Check(ctx context.Context) (Release, bool, error) {
	current, err := ParseVersion(c.current)
	if err != nil {
		return Release{}, false, err
	}
	latest, err := c.Latest(ctx)
	if err != nil {
		return Release{}, false, err
	}
	c.logger.Debug("update check", "current", current, "latest", latest.Version)
	return latest, latest.Version.Compare(current) > 0, nil
}
