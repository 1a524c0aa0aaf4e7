package service

import (
	"context"
	"log"
	"time"
)

// ClearObjects deletes objects under prefix whose modification time is
// older than the cutoff. Used to clear stale upload copies left behind
// when DELETE_AFTER_PARSE is off.
func ClearObjects(storage ObjectStorage, prefix string, olderThan time.Duration) error {
	ctx := context.Background()

	objects, err := storage.List(ctx, prefix)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-olderThan)

	for _, obj := range objects {
		if obj.ModTime.Before(cutoff) {
			if err := storage.Delete(ctx, obj.Key); err != nil {
				log.Println("Object delete failed:", obj.Key, err)
			}
		}
	}

	return nil
}

func RegisterObjectCleaner(ps *PeriodicService, storage ObjectStorage, prefix string, olderThan, interval time.Duration) {
	ps.Register(func() {
		if err := ClearObjects(storage, prefix, olderThan); err != nil {
			log.Printf("Failed to clear objects for %s: %s", prefix, err)
		}
	}, interval)
}
