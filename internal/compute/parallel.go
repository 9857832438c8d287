package compute

import "sync"

// ParallelFor executes fn over [0, n) split into at most workers contiguous
// chunks of at least minChunk items. It returns once every chunk is done.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelSum reduces fn over [0, n) with one partial per chunk. Partials
// are added in chunk order so the result does not depend on scheduling.
func ParallelSum(n, minChunk, workers int, fn func(start, end int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if workers < 1 {
		workers = 1
	}
	chunks := workers
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	if chunks < 1 {
		chunks = 1
	}
	chunkSize := (n + chunks - 1) / chunks

	partials := make([]float64, chunks)
	ParallelFor(chunks, 1, chunks, func(cs, ce int) {
		for c := cs; c < ce; c++ {
			start := c * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			if start < end {
				partials[c] = fn(start, end)
			}
		}
	})

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
