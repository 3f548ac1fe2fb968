package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/loanscope/internal/dataset"
	"github.com/theirongolddev/loanscope/internal/insights"
)

// ProgressFunc is called as work completes. current is the number of items
// finished so far, total is the total count.
type ProgressFunc func(current, total int)

// View is one question's aggregation, or the error that prevented it.
type View struct {
	Question insights.Question
	Result   insights.Result
	Err      error
}

// AggregateAll computes every question against ds using a bounded worker
// pool. Views come back in question order; a failing question (for
// example a missing column) does not stop the others.
func AggregateAll(ds *dataset.Dataset, progressFn ProgressFunc) []View {
	questions := insights.Questions()
	views := make([]View, len(questions))

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(questions) {
		numWorkers = len(questions)
	}

	work := make(chan int, len(questions))
	for i := range questions {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				q := questions[idx]
				res, err := insights.Aggregate(ds, q)
				views[idx] = View{Question: q, Result: res, Err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(questions))
				}
			}
		}()
	}

	wg.Wait()
	return views
}
