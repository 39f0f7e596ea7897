package panel

import (
	"fmt"
	"math"

	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Tier is the colour of a meter segment.
type Tier int

// Meter tiers.
const (
	TierOff Tier = iota
	TierLow
	TierMid
	TierHigh
)

// MeterSegments is the number of segments in the intensity meter.
const MeterSegments = 15

// MuteThreshold is the gain at or below which the popup shows the muted
// affordance.
const MuteThreshold = 0.01

// Display is everything the popup shows for a gain.
type Display struct {
	Gain    float64
	Percent int
	Label   string
	// Lit is the number of active meter segments.
	Lit   int
	Meter [MeterSegments]Tier
	Muted bool
}

// Derive computes the display for gain.
func Derive(gain float64) Display {
	percent := protocol.Percent(gain)

	lit := min(MeterSegments, max(0, int(math.Ceil(gain*MeterSegments/protocol.MaxGain))))

	d := Display{
		Gain:    gain,
		Percent: percent,
		Label:   fmt.Sprintf("%d%%", percent),
		Lit:     lit,
		Muted:   gain <= MuteThreshold,
	}

	const perTier = MeterSegments / 3
	for i := 0; i < lit; i++ {
		switch {
		case i < perTier:
			d.Meter[i] = TierLow
		case i < 2*perTier:
			d.Meter[i] = TierMid
		default:
			d.Meter[i] = TierHigh
		}
	}

	return d
}
