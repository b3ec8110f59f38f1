// Package flock guards a store's database file with an advisory lock file so
// that only one process at a time opens and migrates it.
//
//	lock, err := flock.Acquire(ctx, dbPath+".lock", 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer lock.Release()
//
// Contention is retried until the timeout; any other locking failure is
// returned at once.
package flock
