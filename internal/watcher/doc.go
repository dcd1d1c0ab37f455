// Package watcher re-runs work when a transaction file changes on disk.
//
// A Watcher subscribes to the directory holding the file (so editors that
// replace the file through a rename are still seen), filters events down to
// the watched file and debounces bursts of writes into a single callback.
//
// Example usage:
//
//	w, err := watcher.New("data/Amazon_transactions.csv", func(path string) {
//		remine(path)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
