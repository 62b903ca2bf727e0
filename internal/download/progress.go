package download

// ProgressAggregator derives one global percentage from the percentages of
// every tracked job. It is not safe for concurrent use; the Manager serializes
// access under its own mutex.
type ProgressAggregator struct {
	percents    map[string]int
	sum         int
	allComplete bool
}

// NewProgressAggregator creates an empty aggregator
func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{percents: make(map[string]int)}
}

// Track starts tracking a job at 0%.
func (a *ProgressAggregator) Track(id string) {
	if _, ok := a.percents[id]; ok {
		return
	}
	a.percents[id] = 0
	a.allComplete = false
}

// Set records the percentage of a tracked job. Values are clamped to [0,100].
func (a *ProgressAggregator) Set(id string, percent int) {
	old, ok := a.percents[id]
	if !ok {
		return
	}
	percent = clampPercent(percent)
	a.sum += percent - old
	a.percents[id] = percent
}

// MarkAllComplete records that the queue drained. It only affects the result
// while no job is tracked.
func (a *ProgressAggregator) MarkAllComplete() {
	a.allComplete = true
}

// Reset forgets every job and the all-complete mark.
func (a *ProgressAggregator) Reset() {
	a.percents = make(map[string]int)
	a.sum = 0
	a.allComplete = false
}

// Len returns the number of tracked jobs
func (a *ProgressAggregator) Len() int {
	return len(a.percents)
}

// GlobalPercent returns floor(sum/N). With no tracked jobs it is 100 after
// MarkAllComplete and 0 otherwise.
func (a *ProgressAggregator) GlobalPercent() int {
	n := len(a.percents)
	if n == 0 {
		if a.allComplete {
			return 100
		}
		return 0
	}
	return a.sum / n
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
