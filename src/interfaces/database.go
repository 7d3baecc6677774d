package interfaces

// -----------------------------------------------------------------------------
// IDocumentStore defines the contract for per-visitor document persistence.
// Documents are opaque JSON blobs keyed by visitor key.
// -----------------------------------------------------------------------------

type IDocumentStore interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the backend and creates its schema if needed.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Load returns the stored document. found is false when the key has never
	// been saved.
	Load(key string) (doc []byte, found bool, err error)

	// -----------------------------------------------------------------------------

	// Save replaces the document for key.
	Save(key string, doc []byte) error

	// -----------------------------------------------------------------------------

	// Close the backend
	Close() error
}
