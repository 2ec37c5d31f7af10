package dictionary

import (
	"context"
	"sync"
)

var (
	sharedOnce sync.Once
	shared     *Dictionary
)

// Shared loads the process-wide Dictionary on first call and returns the same
// value afterwards. Later calls ignore loader.
func Shared(ctx context.Context, loader *Loader) *Dictionary {
	sharedOnce.Do(func() {
		shared = loader.Load(ctx)
	})
	return shared
}

// resetShared is for tests.
func resetShared() {
	sharedOnce = sync.Once{}
	shared = nil
}
