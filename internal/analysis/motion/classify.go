package motion

import (
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/spatial"
	"github.com/jengzang/motion-profile-go/internal/stats"
)

// Classify builds one pair per consecutive fix and labels it.
//
// Speed is compared with the idle threshold: above is fast, otherwise slow
// (equality counts as idle). A pair is off when its time gap exceeds
// mean + sigmas*std of all gaps of the day. The flags are evaluated
// independently; the label gives off precedence, then active, then idle.
func Classify(fixes []models.Fix, th config.Thresholds) []models.Pair {
	if len(fixes) < 2 {
		return nil
	}

	pairs := make([]models.Pair, len(fixes)-1)
	gaps := make([]float64, len(pairs))
	for i := 1; i < len(fixes); i++ {
		prev, curr := fixes[i-1], fixes[i]
		p := models.Pair{
			Timestamp: curr.Timestamp,
			DistanceM: spatial.PlanarDistance(prev.X, prev.Y, curr.X, curr.Y),
			GeodesicM: spatial.HaversineDistance(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude),
			DtS:       curr.Timestamp.Sub(prev.Timestamp).Seconds(),
		}
		if p.DtS > 0 {
			p.SpeedMps = p.DistanceM / p.DtS
		}
		pairs[i-1] = p
		gaps[i-1] = p.DtS
	}

	offBound := stats.UpperBound(gaps, th.Sigmas)

	for i := range pairs {
		p := &pairs[i]
		p.FastFlag = p.SpeedMps > th.IdleSpeedThreshold
		p.SlowFlag = !p.FastFlag
		p.OffFlag = p.DtS > offBound

		switch {
		case p.OffFlag:
			p.Label = models.LabelOff
			p.OffTimeS = p.DtS
		case p.FastFlag:
			p.Label = models.LabelActive
			p.ActiveTimeS = p.DtS
		default:
			p.Label = models.LabelIdle
			p.IdleTimeS = p.DtS
		}
	}

	return pairs
}
