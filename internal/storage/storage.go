package storage

import "context"

// ArchiveOptions conveys archive destination metadata.
type ArchiveOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service archives generated letter bodies to remote object storage. Archival
// is best-effort; callers must not fail a request on archive errors.
type Service interface {
	ArchiveLetter(ctx context.Context, userID, letterID, content string) (string, error)
}
