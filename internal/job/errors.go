package job

import "fmt"

// DirectoryFetchError means the user listing failed and the run stopped
// before any item was read.
type DirectoryFetchError struct {
	Err error
}

func (e *DirectoryFetchError) Error() string {
	return fmt.Sprintf("fetch user directory: %v", e.Err)
}

func (e *DirectoryFetchError) Unwrap() error { return e.Err }

// ItemFetchError means the item listing failed and the run stopped before
// anything was evaluated.
type ItemFetchError struct {
	Err error
}

func (e *ItemFetchError) Error() string {
	return fmt.Sprintf("fetch items: %v", e.Err)
}

func (e *ItemFetchError) Unwrap() error { return e.Err }
