package route

import (
	"sync"
	"testing"

	"github.com/cwbudde/algo-route/accel/sim"
	"github.com/cwbudde/algo-route/internal/testutil"
)

// Control and audio actors hammer one engine concurrently. Run under
// the race detector; correctness here is "no race, no block, no
// panic", not specific sample values.
func TestConcurrentReprepareAndProcess(t *testing.T) {
	t.Parallel()

	rt := sim.New()
	eng := New(rt)
	s := unitStore(2, 2)
	cfg := testConfig(2, 2, 32)

	if !eng.Prepare(cfg, s.DelayRef(), s.GainRef()) {
		t.Fatal("Prepare failed")
	}

	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			eng.Reprepare(cfg, s.DelayRef(), s.GainRef())
		}
	}()

	go func() {
		defer wg.Done()
		block := makeBlock(2, 64, 1)
		for i := 0; i < iterations; i++ {
			eng.ProcessBlock(block)
		}
	}()

	wg.Wait()

	if !eng.Ready() {
		t.Error("engine not ready after concurrent reprepares")
	}
}

func TestReleaseDuringProcessingLeavesSilence(t *testing.T) {
	t.Parallel()

	rt := sim.New()
	eng := New(rt)
	s := unitStore(1, 1)

	if !eng.Prepare(testConfig(1, 1, 16), s.DelayRef(), s.GainRef()) {
		t.Fatal("Prepare failed")
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		eng.ReleaseResources()
	}()

	block := makeBlock(1, 16, 1)
	for i := 0; i < 100; i++ {
		eng.ProcessBlock(block)
	}

	wg.Wait()

	// After release wins, further blocks are silent.
	final := makeBlock(1, 16, 1)
	eng.ProcessBlock(final)

	testutil.RequireSilence(t, final.Channels[0], 0)
}
