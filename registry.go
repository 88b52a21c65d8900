package schematic

// DocumentRegistry provides schema document lookup operations.
// Implementations can load documents from files, databases, or other sources.
type DocumentRegistry interface {
	// GetDocument retrieves a parsed schema document by name.
	GetDocument(name string) (*SchemaDocument, error)
	// ListDocuments returns the names of all registered documents, sorted.
	ListDocuments() []string
}
