package rules

import "sort"

// Metric binning: clustering a glyph set into ordered groups by similarity
// of a numeric metric. This is 1-D clustering, not equal-frequency binning:
// metric distributions are often multimodal (narrow vs. wide glyphs), and
// equal-count bins would split visually similar glyphs across boundaries.
// The glyphs are sorted by the metric and cut at the largest adjacent gaps.

// BinByMetric partitions a glyph set into count bins, ordered ascending by
// the metric. Bin sizes are not equal; with fewer distinct glyphs than
// bins, trailing bins are empty. The union of all bins is exactly the
// input set and bins do not overlap.
func (sess *Session) BinByMetric(glyphs []string, metric string, count int, loc Location) ([][]string, error) {
	if !isMetricName(metric) {
		return nil, errUnknownMetric(loc, metric)
	}
	if count < 1 {
		return nil, errResolution(loc, "bin count must be positive, got %d", count)
	}
	type measured struct {
		glyph string
		value int
	}
	pairs := make([]measured, 0, len(glyphs))
	for _, g := range glyphs {
		metrics, err := sess.Font.Metrics(g)
		if err != nil {
			return nil, errResolution(loc, "%v", err)
		}
		v, _ := metrics.Metric(metric)
		pairs = append(pairs, measured{glyph: g, value: v})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	bins := make([][]string, count)
	for i := range bins {
		bins[i] = []string{}
	}
	if len(pairs) == 0 {
		return bins, nil
	}
	// the (count-1) widest gaps between adjacent sorted values become the
	// bin boundaries; ties cut at the earlier position
	type gap struct {
		index int // boundary before pairs[index]
		width int
	}
	gaps := make([]gap, 0, len(pairs)-1)
	for i := 1; i < len(pairs); i++ {
		gaps = append(gaps, gap{index: i, width: pairs[i].value - pairs[i-1].value})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].width != gaps[j].width {
			return gaps[i].width > gaps[j].width
		}
		return gaps[i].index < gaps[j].index
	})
	n := count - 1
	if n > len(gaps) {
		n = len(gaps)
	}
	cuts := make([]int, 0, n)
	for _, g := range gaps[:n] {
		cuts = append(cuts, g.index)
	}
	sort.Ints(cuts)
	cuts = append(cuts, len(pairs))

	start, bin := 0, 0
	for _, cut := range cuts {
		for _, m := range pairs[start:cut] {
			bins[bin] = append(bins[bin], m.glyph)
		}
		start = cut
		bin++
	}
	return bins, nil
}
