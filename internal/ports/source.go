package ports

// DocumentSource enumerates and reads the documents under a root directory
type DocumentSource interface {
	// Scan returns every diagram or graph document under root, depth-first.
	// Any traversal error fails the whole scan.
	Scan(root string) ([]string, error)

	// ModTime returns the file's modification time in ms since epoch
	ModTime(path string) (int64, error)

	// ReadFile returns the file's full contents
	ReadFile(path string) ([]byte, error)
}
