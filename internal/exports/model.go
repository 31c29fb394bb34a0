package exports

import "time"

// Export is one PDF printed from an owner's resume and kept in object storage.
type Export struct {
	ID          string
	OwnerID     string
	Template    string
	FileName    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	PageCount   int
	CreatedAt   time.Time
}
