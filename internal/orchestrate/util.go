package orchestrate

import "fmt"

// FormatDurationShort formats milliseconds into a compact human-readable string.
//
//	<1000ms  -> "0.Xs"
//	<60000ms -> "X.Xs"
//	<3600000 -> "XmYs"
//	else     -> "XhYm"
func FormatDurationShort(ms int64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("0.%ds", ms/100)
	case ms < 60000:
		return fmt.Sprintf("%d.%ds", ms/1000, (ms%1000)/100)
	case ms < 3600000:
		return fmt.Sprintf("%dm%ds", ms/60000, (ms%60000)/1000)
	default:
		return fmt.Sprintf("%dh%dm", ms/3600000, (ms%3600000)/60000)
	}
}

// TruncateMiddle shortens s to maxLen by replacing its middle with "...".
// Node labels in Pajek files are often long school-qualified names.
func TruncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	available := maxLen - 3
	return s[:(available+1)/2] + "..." + s[len(s)-available/2:]
}

// CompareVariants returns the modularity difference weighted minus unweighted
// and whether the two partitions assign every node identically up to labels.
func CompareVariants(r *Report) (delta float64, samePartition bool) {
	if r == nil || r.Unweighted == nil || r.Weighted == nil {
		return 0, false
	}
	delta = r.Weighted.Modularity - r.Unweighted.Modularity
	pu, pw := r.Unweighted.partition, r.Weighted.partition
	if pu == nil || pw == nil {
		return delta, false
	}
	return delta, equalUpToLabels(pu.Communities(), pw.Communities())
}

func equalUpToLabels(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	// Communities() is canonical: sets in first-appearance order, members sorted
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
