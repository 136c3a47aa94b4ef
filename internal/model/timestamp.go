package model

import "time"

// FileTimeLayout names log and capture files, e.g. 20250101-093000.
const FileTimeLayout = "20060102-150405"

// FileTimestamp formats t with FileTimeLayout in local time.
func FileTimestamp(t time.Time) string {
	return t.Local().Format(FileTimeLayout)
}
