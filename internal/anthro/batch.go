package anthro

import (
	"runtime"
	"sync"
)

// Case is one unit of batch work: a named cloud measured for one key.
type Case struct {
	CaseID string
	Cloud  Cloud
	Key    Key
}

// CaseResult pairs a case with its outcome. Err is set only for contract
// violations; it never halts the rest of the batch.
type CaseResult struct {
	CaseID string
	Result MeasurementResult
	Err    error
}

// MeasureBatch fans cases out across workers. Each call is pure and owns
// only its local data, so no locking discipline is needed beyond the result
// channel. Results are returned in input order regardless of completion
// order.
func MeasureBatch(cases []Case, p Params, workers int) []CaseResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cases) {
		workers = len(cases)
	}

	results := make([]CaseResult, len(cases))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, c := range cases {
		wg.Add(1)
		go func(i int, c Case) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r, err := Measure(c.Cloud, c.Key, p)
			results[i] = CaseResult{CaseID: c.CaseID, Result: r, Err: err}
		}(i, c)
	}
	wg.Wait()
	return results
}
