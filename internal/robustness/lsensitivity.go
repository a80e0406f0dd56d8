package robustness

// LSensitivityResult is the broad (3-point) L-sensitivity outcome.
type LSensitivityResult struct {
	LBs    map[int]float64 // block length -> annualized GM LB
	RelVar float64
	Pass   bool
	Reason string
}

// LSensitivityBroad runs BCa-GM at L-1, L, L+1 (skipping L-1 below 2)
// and fails if any LB is non-positive or fails to clear the hurdle, or
// if the three LBs disagree by more than RelVarFail while the baseline
// sits near the hurdle.
func LSensitivityBroad(p Params, baselineLBAnnual float64) LSensitivityResult {
	L := max2(p.MedianHoldingBars)
	candidates := []int{L, L + 1}
	if L-1 >= 2 {
		candidates = append([]int{L - 1}, candidates...)
	}

	lbs := make(map[int]float64, len(candidates))
	values := make([]float64, 0, len(candidates))
	for i, l := range candidates {
		lb := bcaGMAnnualLB(p.Returns, l, p, uint64(100+i))
		lbs[l] = lb
		values = append(values, lb)
		if lb <= 0 || lb <= p.Hurdle {
			return LSensitivityResult{LBs: lbs, Pass: false, Reason: "L-sensitivity FAIL: LB <= 0 or <= hurdle at block length"}
		}
	}

	relVar := RelVar(values)
	if relVar > p.Thresholds.RelVarFail && NearHurdle(baselineLBAnnual, p.Hurdle, p.Thresholds) {
		return LSensitivityResult{LBs: lbs, RelVar: relVar, Pass: false, Reason: "L-sensitivity FAIL: rel_var exceeds threshold near hurdle"}
	}

	return LSensitivityResult{LBs: lbs, RelVar: relVar, Pass: true}
}

// FineGridResult is the extended L-sensitivity grid outcome.
type FineGridResult struct {
	Grid       []int
	LBs        map[int]float64
	PassCount  int
	WorstLB    float64
	Pass       bool
	Reason     string
}

// FineGridParams extends Params with the fine-grid-only tunables.
type FineGridParams struct {
	ConfiguredMaxL  int
	MinPassFraction float64
	MinGapTolerance float64
}

// LSensitivityFine runs BCa-GM across the integer grid [2,
// min(configuredMaxL, 2*medianHold, n-1)], failing when fewer than
// minPassFraction of grid points clear the hurdle, or the worst LB
// falls below hurdle by more than minGapTolerance.
func LSensitivityFine(p Params, fp FineGridParams) FineGridResult {
	n := len(p.Returns)
	maxGrid := fp.ConfiguredMaxL
	if v := 2 * max2(p.MedianHoldingBars); v < maxGrid {
		maxGrid = v
	}
	if n-1 < maxGrid {
		maxGrid = n - 1
	}
	if maxGrid < 2 {
		return FineGridResult{Pass: true, Reason: "grid degenerate, skipped"}
	}

	grid := make([]int, 0, maxGrid-1)
	for l := 2; l <= maxGrid; l++ {
		grid = append(grid, l)
	}

	lbs := make(map[int]float64, len(grid))
	passCount := 0
	worst := 0.0
	worstSet := false
	for i, l := range grid {
		lb := bcaGMAnnualLB(p.Returns, l, p, uint64(300+i))
		lbs[l] = lb
		if lb > p.Hurdle {
			passCount++
		}
		if !worstSet || lb < worst {
			worst = lb
			worstSet = true
		}
	}

	result := FineGridResult{Grid: grid, LBs: lbs, PassCount: passCount, WorstLB: worst}
	passFraction := float64(passCount) / float64(len(grid))
	if passFraction < fp.MinPassFraction {
		result.Reason = "L-sensitivity fine grid FAIL: pass fraction below minimum"
		return result
	}
	if (p.Hurdle - worst) > fp.MinGapTolerance {
		result.Reason = "L-sensitivity fine grid FAIL: worst LB below hurdle by more than tolerance"
		return result
	}
	result.Pass = true
	return result
}

func max2(l int) int {
	if l < 2 {
		return 2
	}
	return l
}
