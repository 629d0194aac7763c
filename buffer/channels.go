package buffer

// Channels is a fixed-topology multichannel sample block backed by one
// contiguous allocation. It covers the common pattern of handing a
// processor a full set of per-channel slices while owning the storage
// in one place.
type Channels struct {
	data   []float64
	chans  [][]float64
	frames int
}

// NewChannels returns a Channels block with the given channel count
// and frames per channel, zero-filled. Negative values are clamped
// to 0.
func NewChannels(channels, frames int) *Channels {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	c := &Channels{
		data:   make([]float64, channels*frames),
		chans:  make([][]float64, channels),
		frames: frames,
	}
	for i := range c.chans {
		c.chans[i] = c.data[i*frames : (i+1)*frames]
	}
	return c
}

// NumChannels returns the channel count.
func (c *Channels) NumChannels() int {
	return len(c.chans)
}

// Frames returns the per-channel length.
func (c *Channels) Frames() int {
	return c.frames
}

// Channel returns the slice for channel i.
func (c *Channels) Channel(i int) []float64 {
	return c.chans[i]
}

// Slices returns all per-channel slices. The outer slice is owned by
// the Channels block; callers may replace individual entries in their
// own copies but must not mutate the returned slice itself.
func (c *Channels) Slices() [][]float64 {
	return c.chans
}

// Zero sets every sample in every channel to 0.
func (c *Channels) Zero() {
	for i := range c.data {
		c.data[i] = 0
	}
}
