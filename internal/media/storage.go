package media

import "context"

// StoredObject describes a successfully stored image. RemoteID is the
// backend-issued identifier and must be persisted for later removal.
type StoredObject struct {
	URL      string
	RemoteID string
}

// Storage persists binary image content. Implementations: CloudinaryStorage
// for the remote media host, LocalStorage for filesystem serving.
type Storage interface {
	// Put stores the image content and returns its locator. The backend
	// controls the final object naming; filename is advisory only.
	Put(ctx context.Context, filename string, data []byte) (*StoredObject, error)

	// Remove deletes a stored object by its backend identifier
	Remove(ctx context.Context, remoteID string) error
}
