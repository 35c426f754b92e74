package outbound

import "context"

// MediaStorePort is the object/file storage collaborator. Paths are
// relative to a per-run output directory; artifacts are write-once.
type MediaStorePort interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
}
