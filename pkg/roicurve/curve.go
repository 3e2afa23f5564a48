// Package roicurve processes revenue-vs-spend response curves.
//
// A raw curve arrives as an unordered set of observations, each carrying a
// spend and either an observed revenue or an observed ROAS. Clean turns that
// into a canonical piecewise-linear curve: sorted by spend, anchored at the
// origin, with no zero-length spans. Segments and Evaluate then read the
// canonical form; nothing in this package mutates it.
//
// Notes on implementation choices:
//
//   - When two observations land within SpendEpsilon of each other, the one
//     with the higher revenue wins. This optimistic tie-break mirrors the
//     upstream revenue models, which report the best observed outcome per
//     spend level.
//   - Evaluate extrapolates past the final point using the slope of the last
//     segment. Callers that need a hard ceiling bound the spend before
//     evaluating.
package roicurve

import (
	"math"
	"sort"

	"github.com/iwvelando/adspend-optimizer/pkg/constants"
)

// Sample is a single raw curve observation. Revenue takes precedence when both
// Revenue and ROAS are present; a sample with neither contributes zero revenue.
type Sample struct {
	Spend   float64
	Revenue *float64
	ROAS    *float64
}

// Point is one vertex of a cleaned curve.
type Point struct {
	Spend   float64
	Revenue float64
}

// Segment describes the straight-line span between two consecutive cleaned
// points.
type Segment struct {
	Length float64
	Slope  float64
}

// Clean canonicalizes raw observations into a sorted, deduplicated curve that
// always contains the origin. Clean is idempotent.
func Clean(samples []Sample) []Point {
	points := make([]Point, 0, len(samples)+1)
	points = append(points, Point{Spend: 0, Revenue: 0})

	for _, s := range samples {
		if s.Spend < 0 {
			continue
		}
		var revenue float64
		switch {
		case s.Revenue != nil:
			revenue = *s.Revenue
		case s.ROAS != nil:
			revenue = *s.ROAS * s.Spend
		}
		points = append(points, Point{Spend: s.Spend, Revenue: revenue})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Spend < points[j].Spend
	})

	cleaned := points[:1]
	for _, p := range points[1:] {
		last := &cleaned[len(cleaned)-1]
		if p.Spend-last.Spend <= constants.SpendEpsilon {
			if p.Revenue > last.Revenue {
				*last = p
			}
			continue
		}
		cleaned = append(cleaned, p)
	}

	out := make([]Point, len(cleaned))
	copy(out, cleaned)
	return out
}

// Segments returns the (length, slope) description of every span between
// consecutive cleaned points, skipping degenerate spans.
func Segments(points []Point) []Segment {
	var segments []Segment
	for i := 1; i < len(points); i++ {
		length := points[i].Spend - points[i-1].Spend
		if length <= constants.SpendEpsilon {
			continue
		}
		slope := (points[i].Revenue - points[i-1].Revenue) / length
		segments = append(segments, Segment{Length: length, Slope: slope})
	}
	return segments
}

// Evaluate returns the revenue a cleaned curve predicts at an arbitrary spend.
// An empty curve falls back to a straight line with slope max(expectedROAS, 0);
// a single point defines a line through the origin; past the final point the
// last segment's slope carries on.
func Evaluate(points []Point, spend, expectedROAS float64) float64 {
	if spend <= 0 {
		return 0
	}

	n := len(points)
	if n == 0 {
		return math.Max(expectedROAS, 0) * spend
	}

	if n == 1 {
		p := points[0]
		slope := math.Max(expectedROAS, 0)
		if p.Spend > constants.SpendEpsilon {
			slope = p.Revenue / p.Spend
		}
		return slope * spend
	}

	last := points[n-1]
	if spend >= last.Spend {
		slope := expectedROAS
		if last.Spend > constants.SpendEpsilon {
			prev := points[n-2]
			slope = (last.Revenue - prev.Revenue) / (last.Spend - prev.Spend)
		}
		return last.Revenue + slope*(spend-last.Spend)
	}

	idx := sort.Search(n, func(i int) bool { return points[i].Spend >= spend })
	if idx == 0 {
		// Spend sits below the first point; interpolate from the origin.
		p := points[0]
		if p.Spend <= constants.SpendEpsilon {
			return p.Revenue
		}
		return p.Revenue / p.Spend * spend
	}

	a := points[idx-1]
	b := points[idx]
	t := (spend - a.Spend) / (b.Spend - a.Spend)
	return a.Revenue + t*(b.Revenue-a.Revenue)
}
