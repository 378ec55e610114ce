package match

import (
	"context"
	"sync"

	"hmmtally/internal/freq"
)

// Config controls the parallel ranking pass.
type Config struct {
	MaxDistance int // < 0 = unbounded
	Threads     int // >= 1
}

// RankAll fans the per-query reference scans out over a worker pool. Each
// worker only reads the finalized reference rows and writes its own output
// slot, so no further synchronization is needed. Results are indexed by
// query order; progress, if non-nil, is called once per completed query.
func RankAll(ctx context.Context, cfg Config, queries []Query, ref []freq.RefRow, progress func()) ([][]Candidate, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	out := make([][]Candidate, len(queries))
	jobs := make(chan int, cfg.Threads*2)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					out[i] = Rank(queries[i], ref, cfg.MaxDistance)
					if progress != nil {
						mu.Lock()
						progress()
						mu.Unlock()
					}
				}
			}
		}()
	}

feed:
	for i := range queries {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
