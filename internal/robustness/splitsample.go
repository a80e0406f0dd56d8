package robustness

// SplitSampleResult is the split-sample stage outcome.
type SplitSampleResult struct {
	Applicable bool
	FirstLB    float64
	SecondLB   float64
	Pass       bool
	Reason     string
}

// SplitSample splits returns at n/2 and runs BCa-GM on each half with
// the same block length, failing if either half's LB is non-positive or
// fails to clear the hurdle. Only applicable when n >= 40 and each half
// has at least 20 observations.
func SplitSample(p Params) SplitSampleResult {
	n := len(p.Returns)
	if n < 40 {
		return SplitSampleResult{Applicable: false, Pass: true}
	}
	mid := n / 2
	first, second := p.Returns[:mid], p.Returns[mid:]
	if len(first) < 20 || len(second) < 20 {
		return SplitSampleResult{Applicable: false, Pass: true}
	}

	L := max2(p.MedianHoldingBars)
	firstLB := bcaGMAnnualLB(first, L, p, 400)
	secondLB := bcaGMAnnualLB(second, L, p, 401)

	result := SplitSampleResult{Applicable: true, FirstLB: firstLB, SecondLB: secondLB}
	if firstLB <= 0 || firstLB <= p.Hurdle {
		result.Reason = "split-sample FAIL: half-1 LB <= hurdle"
		return result
	}
	if secondLB <= 0 || secondLB <= p.Hurdle {
		result.Reason = "split-sample FAIL: half-2 LB <= hurdle"
		return result
	}
	result.Pass = true
	return result
}
