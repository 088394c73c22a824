package bhost

// Bucket is one element of a [Brigade]: either a buffer of output bytes or the end-of-stream marker.
type Bucket struct {
	Data []byte
	EOS  bool
}

// Brigade is an ordered queue of output buckets that have not been passed to the transport yet.
type Brigade struct {
	buckets []Bucket
}

// NewBrigade creates an empty brigade.
func NewBrigade() *Brigade {
	return &Brigade{}
}

// Append copies p into a new data bucket at the tail. Empty input is ignored.
func (bb *Brigade) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	bb.buckets = append(bb.buckets, Bucket{Data: append([]byte(nil), p...)})
}

// AppendEOS inserts the end-of-stream marker at the tail.
func (bb *Brigade) AppendEOS() {
	bb.buckets = append(bb.buckets, Bucket{EOS: true})
}

// Buckets returns the queued buckets in order.
func (bb *Brigade) Buckets() []Bucket { return bb.buckets }

// Len returns the number of data bytes queued.
func (bb *Brigade) Len() (n int) {
	for _, b := range bb.buckets {
		n += len(b.Data)
	}
	return n
}

// HasEOS reports whether the brigade carries the end-of-stream marker.
func (bb *Brigade) HasEOS() bool {
	for _, b := range bb.buckets {
		if b.EOS {
			return true
		}
	}
	return false
}

// IsEmpty reports whether there are no buckets at all.
func (bb *Brigade) IsEmpty() bool { return len(bb.buckets) == 0 }

// Cleanup drops all buckets so the brigade can be reused.
func (bb *Brigade) Cleanup() { bb.buckets = bb.buckets[:0] }
