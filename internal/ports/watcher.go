package ports

// Watcher monitors a set of files (the dictionary and the input document)
// and reports changes. The adapter (fsnotify) debounces editor save bursts
// before invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring paths. onChange is called with the absolute
	// path of each changed file. The callback may be invoked from any
	// goroutine. Returns an error if a path doesn't exist or permissions
	// are insufficient.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
