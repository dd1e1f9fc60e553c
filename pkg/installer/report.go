package installer

// Bucket is a reporting group of outcomes.
type Bucket string

const (
	BucketAlreadyPresent Bucket = "already present"
	BucketInstalled      Bucket = "installed"
	BucketUpdated        Bucket = "updated"
	BucketSkipped        Bucket = "skipped"
	BucketFailed         Bucket = "failed"
)

// BucketOrder is the order buckets are reported in.
var BucketOrder = []Bucket{BucketInstalled, BucketUpdated, BucketAlreadyPresent, BucketSkipped, BucketFailed}

// BucketOf returns the bucket an outcome kind is reported under.
func BucketOf(k OutcomeKind) Bucket {
	switch k {
	case AlreadyPresent:
		return BucketAlreadyPresent
	case Installed:
		return BucketInstalled
	case Updated:
		return BucketUpdated
	case SkippedByUser, SkippedNoConsent:
		return BucketSkipped
	default:
		return BucketFailed
	}
}

// Buckets maps each bucket to its entries in report order.
type Buckets map[Bucket][]Entry

// Count returns the total number of entries across all buckets.
func (b Buckets) Count() int {
	n := 0
	for _, entries := range b {
		n += len(entries)
	}
	return n
}

// Names returns the item names in a bucket.
func (b Buckets) Names(bucket Bucket) []string {
	names := make([]string, len(b[bucket]))
	for i, e := range b[bucket] {
		names[i] = e.Name
	}
	return names
}

// Report is the ordered outcome ledger for one run. It is append-only while
// the run is in progress and read-only afterwards.
type Report struct {
	entries []Entry
}

func newReport(capacity int) *Report {
	return &Report{entries: make([]Entry, 0, capacity)}
}

// NewReport builds a read-only report from existing entries, e.g. ones
// loaded from history.
func NewReport(entries []Entry) *Report {
	r := newReport(len(entries))
	r.entries = append(r.entries, entries...)
	return r
}

func (r *Report) append(e Entry) {
	r.entries = append(r.entries, e)
}

// Len returns the number of recorded outcomes.
func (r *Report) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the entries in evaluation order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Outcome returns the outcome recorded for an item.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e.Outcome, true
		}
	}
	return Outcome{}, false
}

// Buckets partitions the report. Order within each bucket follows the
// report and every entry appears in exactly one bucket.
func (r *Report) Buckets() Buckets {
	buckets := make(Buckets, len(BucketOrder))
	for _, e := range r.entries {
		b := BucketOf(e.Outcome.Kind)
		buckets[b] = append(buckets[b], e)
	}
	return buckets
}

// HasFailures returns true if any item failed.
func (r *Report) HasFailures() bool {
	for _, e := range r.entries {
		if e.Outcome.Kind == Failed {
			return true
		}
	}
	return false
}
