package robustness

import "github.com/ohlcquant/palvalidator/internal/statx"

// TailRiskResult is the tail-risk stage outcome.
type TailRiskResult struct {
	Q05    float64
	ES05   float64
	Severe bool
	Pass   bool
	Reason string
}

// TailRisk computes q05 (type-7 quantile) and ES05 over returns, marks
// the tail severe when it exceeds tailMultiple times the per-period GM
// LB, and fails when that severity is combined with a borderline
// (near-hurdle) baseline.
func TailRisk(p Params, lbPerGM, baselineLBAnnual float64) TailRiskResult {
	q05 := statx.Quantile(p.Returns, 0.05)
	es05 := statx.ExpectedShortfall(p.Returns, 0.05)
	severe := SevereTail(q05, es05, lbPerGM, p.Thresholds)

	result := TailRiskResult{Q05: q05, ES05: es05, Severe: severe}
	if severe && NearHurdle(baselineLBAnnual, p.Hurdle, p.Thresholds) {
		result.Reason = "tail-risk FAIL: severe tail with borderline baseline"
		return result
	}
	result.Pass = true
	return result
}
