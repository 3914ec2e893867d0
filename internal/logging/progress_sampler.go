package logging

// ProgressSampler suppresses repetitive batch progress logs. It emits when the
// completed count crosses a percentage bucket or when the batch finishes.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when completion crosses
// bucket boundaries (default 10%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether the transition to completed of total should be
// logged. A zero total never logs.
func (s *ProgressSampler) ShouldLog(completed, total int) bool {
	if s == nil {
		return true
	}
	if total <= 0 {
		return false
	}
	if completed >= total {
		if s.lastBucket == int(100/s.bucketSize) {
			return false
		}
		s.lastBucket = int(100 / s.bucketSize)
		return true
	}
	percent := float64(completed) / float64(total) * 100
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state when a new run starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
