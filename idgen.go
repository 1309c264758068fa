package scrollback

import (
	"time"

	pdebug "github.com/lestrrat-go/pdebug"
)

func newIDGen(seed uint64) *idGen {
	return &idGen{
		seed: seed & (1<<hostIDBits - 1),
		now:  func() int64 { return time.Now().Unix() },
	}
}

// Next returns a new ID. If more than a second's worth of serials
// is requested within the same second, the next second is borrowed
func (ig *idGen) Next() uint64 {
	ig.mutex.Lock()
	defer ig.mutex.Unlock()

	timeID := ig.now()
	if timeID <= ig.timeID {
		// same second, or the clock went backwards, or we are
		// still running on borrowed time
		timeID = ig.timeID
		ig.serialID++
		if ig.serialID >= (1<<serialBits)-1 {
			if pdebug.Enabled {
				pdebug.Printf("idGen: serial overflowed at %d, borrowing the next second", timeID)
			}
			timeID++
			ig.serialID = 1
		}
	} else {
		ig.serialID = 1
	}
	ig.timeID = timeID

	return uint64(timeID-epochOffset)<<timeShift | uint64(ig.serialID)<<serialShift | ig.seed
}
