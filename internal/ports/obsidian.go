package ports

// ObsidianOpener defines the interface for opening indexed files in Obsidian
type ObsidianOpener interface {
	// OpenFile opens the file, which must live under the indexed root,
	// using the obsidian:// URI scheme
	OpenFile(filePath string) error
}
