package storage

import (
	"fmt"
	"time"
)

// UploadPrefix scopes every gallery object in the bucket.
const UploadPrefix = "uploads/"

// UploadKey derives the storage key for an upload from the original
// filename and the current wall clock. The millisecond timestamp makes
// each upload's key unique; keys are never reused, even after deletion.
func UploadKey(fileName string) string {
	return fmt.Sprintf("%s%d-%s", UploadPrefix, time.Now().UnixMilli(), fileName)
}
