package io

// Capture records printed values in memory.
// A zero Capacity is unbounded.
type Capture struct {
	Capacity int
	Data     []byte
}

var _ Output = (*Capture)(nil)

func (cc *Capture) Rewind() {
	cc.Data = nil
}

func (cc *Capture) Print(value byte) (err error) {
	if cc.Capacity > 0 && len(cc.Data) >= cc.Capacity {
		err = ErrChannelFull
		return
	}

	cc.Data = append(cc.Data, value)
	return
}
