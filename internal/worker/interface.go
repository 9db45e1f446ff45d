package worker

import "context"

// Worker is the polling scheduler that drains the entry queue for its
// configured mode. One process runs one loop; scale-out comes from running
// more processes against the same database.
type Worker interface {
	// Start runs the polling loop until Stop is called or ctx is
	// cancelled. Both are observed between cycles only, never mid-entry.
	Start(ctx context.Context) error

	// Stop signals the loop to exit at the next cycle boundary and waits
	// for it to finish.
	Stop()
}
