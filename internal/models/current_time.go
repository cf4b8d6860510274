package models

import "time"

// ResponseCurrentTime is the envelope timestamp in Unix milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}
