package motion

import (
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/spatial"
	"github.com/jengzang/motion-profile-go/internal/stats"
)

// FilterResult is the output of Filter for one day
type FilterResult struct {
	Fixes               []models.Fix // Anchor first, strictly increasing timestamps
	DroppedLeading      int          // The day's first fix, which has no displacement
	DroppedDisplacement int
	DroppedDuplicate    int
}

// Filter removes displacement outliers and then duplicate or out-of-order
// timestamps from one day's fixes.
func Filter(fixes []models.Fix, sigmas float64) FilterResult {
	var res FilterResult
	if len(fixes) > 0 {
		res.DroppedLeading = 1
	}

	kept, outliers := RejectDisplacementOutliers(fixes, sigmas)
	res.DroppedDisplacement = outliers

	res.Fixes, res.DroppedDuplicate = DropNonIncreasing(kept)
	return res
}

// RejectDisplacementOutliers keeps fixes whose distance to their immediate
// predecessor is strictly below mean + sigmas*std of all such distances.
// The first fix has no predecessor and is never returned.
//
// Mean and std are computed once on the unfiltered distances, so a day with
// large glitches gets a loose bound, and a day where every distance is equal
// gets std 0 and keeps nothing. The result is not idempotent.
func RejectDisplacementOutliers(fixes []models.Fix, sigmas float64) ([]models.Fix, int) {
	if len(fixes) < 2 {
		return nil, 0
	}

	distances := make([]float64, len(fixes)-1)
	for i := 1; i < len(fixes); i++ {
		distances[i-1] = spatial.PlanarDistance(fixes[i-1].X, fixes[i-1].Y, fixes[i].X, fixes[i].Y)
	}

	bound := stats.UpperBound(distances, sigmas)

	kept := make([]models.Fix, 0, len(distances))
	for i, d := range distances {
		if d < bound {
			kept = append(kept, fixes[i+1])
		}
	}

	return kept, len(distances) - len(kept)
}

// DropNonIncreasing keeps the first fix and every later fix whose timestamp is
// strictly after the last kept one.
func DropNonIncreasing(fixes []models.Fix) ([]models.Fix, int) {
	if len(fixes) == 0 {
		return nil, 0
	}

	kept := make([]models.Fix, 0, len(fixes))
	kept = append(kept, fixes[0])
	for _, f := range fixes[1:] {
		if f.Timestamp.After(kept[len(kept)-1].Timestamp) {
			kept = append(kept, f)
		}
	}

	return kept, len(fixes) - len(kept)
}
