package shmregion

// InProcessMapping backs a region with a plain Go byte slice instead of a
// real OS mapping. It exists for tests and for single-process demos of
// the ring protocol where two goroutines stand in for two processes.
type InProcessMapping struct {
	data []byte
}

// NewInProcess allocates a zeroed in-process mapping of the given size.
func NewInProcess(size uint32) *InProcessMapping {
	return &InProcessMapping{data: make([]byte, size)}
}

func (m *InProcessMapping) Bytes() []byte { return m.data }

func (m *InProcessMapping) Close() error {
	m.data = nil
	return nil
}
