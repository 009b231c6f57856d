package tui

import "strings"

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as one block character each, scaled so that peak
// maps to the tallest block. Zero values render as a space. When there are
// more values than width, consecutive values are averaged into width buckets.
func Sparkline(values []int, peak, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	values = bucket(values, width)

	var sb strings.Builder
	for _, v := range values {
		if v <= 0 || peak <= 0 {
			sb.WriteRune(' ')
			continue
		}
		level := (v*len(sparkLevels) - 1) / peak
		sb.WriteRune(sparkLevels[min(max(level, 0), len(sparkLevels)-1)])
	}
	return sb.String()
}

// bucket averages values down to at most width entries.
func bucket(values []int, width int) []int {
	if len(values) <= width {
		return values
	}
	out := make([]int, width)
	for i := range out {
		from := i * len(values) / width
		to := (i + 1) * len(values) / width
		sum := 0
		for _, v := range values[from:to] {
			sum += v
		}
		out[i] = sum / (to - from)
	}
	return out
}
