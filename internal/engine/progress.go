package engine

import (
	"strconv"
	"strings"
)

// progressMarker prefixes the machine-readable progress lines we ask yt-dlp
// to print.
const progressMarker = "[viddown]"

// progressTemplate renders status, downloaded, total and estimated bytes.
const progressTemplate = "download:" + progressMarker +
	" %(progress.status)s %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s"

// parseProgress parses a line produced by progressTemplate.
// Unknown values ("NA") are reported as zero.
func parseProgress(line string) (Progress, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), progressMarker)
	if !ok {
		return Progress{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) != 4 {
		return Progress{}, false
	}
	return Progress{
		Status:             fields[0],
		DownloadedBytes:    parseBytes(fields[1]),
		TotalBytes:         parseBytes(fields[2]),
		TotalBytesEstimate: parseBytes(fields[3]),
	}, true
}

func parseBytes(s string) int64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f)
}
