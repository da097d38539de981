// Package resample converts mono audio between sample rates.
//
// Capture devices often run at 44.1 or 48 kHz while the realtime uplink
// wants 16 kHz; a Converter sits between the two. Conversion is streaming
// and stateful: frames must be fed in order, through a single Converter.
package resample

import (
	"fmt"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Converter resamples mono float32 audio from a source rate to a
// destination rate. When the rates match it passes frames through
// untouched.
type Converter struct {
	srcRate int
	dstRate int

	mu sync.Mutex
	rs resampling.Resampler
}

// New creates a Converter from srcRate to dstRate (both in Hz).
func New(srcRate, dstRate int) (*Converter, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resample: invalid rates %d -> %d", srcRate, dstRate)
	}
	c := &Converter{srcRate: srcRate, dstRate: dstRate}
	if srcRate == dstRate {
		return c, nil
	}
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resample: create resampler: %w", err)
	}
	c.rs = rs
	return c, nil
}

// Process resamples one frame. The returned slice length varies with the
// rate ratio and the resampler's internal latency; it may be empty for
// the first few frames.
func (c *Converter) Process(in []float32) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rs == nil {
		out := make([]float32, len(in))
		copy(out, in)
		return out, nil
	}

	buf := make([]float64, len(in))
	for i, v := range in {
		buf[i] = float64(v)
	}
	res, err := c.rs.Process(buf)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	out := make([]float32, len(res))
	for i, v := range res {
		out[i] = float32(v)
	}
	return out, nil
}

// Ratio returns dstRate/srcRate.
func (c *Converter) Ratio() float64 {
	return float64(c.dstRate) / float64(c.srcRate)
}
