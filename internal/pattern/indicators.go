package pattern

import (
	"errors"
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/security"
)

var (
	errUnknownField  = errors.New("pattern: unknown field")
	errZeroPrevClose = errors.New("pattern: meander requires a nonzero previous close")
)

// two / five / twenty / oneFifth are named so the indicator formulas
// below read like the spec's arithmetic rather than a wall of literals.
var (
	two      = decimalx.Two
	five     = decimalx.NewFromInt(5)
	twenty   = decimalx.NewFromInt(20)
	oneFifth = decimalx.NewFromFloat(0.20)
)

func hlRange(sec *security.Security, ts time.Time, offset int) (decimalx.Decimal, decimalx.Decimal, decimalx.Decimal, error) {
	high, err := sec.Series().GetHigh(ts, offset)
	if err != nil {
		return decimalx.Zero, decimalx.Zero, decimalx.Zero, err
	}
	low, err := sec.Series().GetLow(ts, offset)
	if err != nil {
		return decimalx.Zero, decimalx.Zero, decimalx.Zero, err
	}
	closeP, err := sec.Series().GetClose(ts, offset)
	if err != nil {
		return decimalx.Zero, decimalx.Zero, decimalx.Zero, err
	}
	return high, low, closeP, nil
}

func ibs1At(sec *security.Security, ts time.Time, offset int) (decimalx.Decimal, error) {
	high, low, closeP, err := hlRange(sec, ts, offset)
	if err != nil {
		return decimalx.Zero, err
	}
	if !high.GreaterThan(low) {
		return decimalx.Zero, nil
	}
	return decimalx.NewFromInt(100).Mul(closeP.Sub(low)).Div(high.Sub(low)), nil
}

// IBS1 is 100*(Close-Low)/(High-Low) at BaseOffset, 0 when High<=Low.
type IBS1 struct{ BaseOffset int }

func (i IBS1) Lookback() int { return i.BaseOffset }

func (i IBS1) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	return ibs1At(sec, ts, i.BaseOffset)
}

// IBS2 averages IBS1 over BaseOffset and BaseOffset+1.
type IBS2 struct{ BaseOffset int }

func (i IBS2) Lookback() int { return i.BaseOffset + 1 }

func (i IBS2) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	sum := decimalx.Zero
	for o := i.BaseOffset; o <= i.BaseOffset+1; o++ {
		v, err := ibs1At(sec, ts, o)
		if err != nil {
			return decimalx.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum.Div(two), nil
}

// IBS3 averages IBS1 over BaseOffset, BaseOffset+1 and BaseOffset+2.
type IBS3 struct{ BaseOffset int }

func (i IBS3) Lookback() int { return i.BaseOffset + 2 }

func (i IBS3) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	sum := decimalx.Zero
	three := decimalx.NewFromInt(3)
	for o := i.BaseOffset; o <= i.BaseOffset+2; o++ {
		v, err := ibs1At(sec, ts, o)
		if err != nil {
			return decimalx.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum.Div(three), nil
}

// VWAPLike is the mean of Open, Close, and (High+Low)/2 at BaseOffset.
type VWAPLike struct{ BaseOffset int }

func (v VWAPLike) Lookback() int { return v.BaseOffset }

func (v VWAPLike) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	high, low, closeP, err := hlRange(sec, ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	openP, err := sec.Series().GetOpen(ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	mid := high.Add(low).Div(two)
	three := decimalx.NewFromInt(3)
	return openP.Add(closeP).Add(mid).Div(three), nil
}

// trueRangeAt returns max(|Close(o)-Close(o+1)|, High(o)-Low(o)).
func trueRangeAt(sec *security.Security, ts time.Time, offset int) (decimalx.Decimal, error) {
	high, low, closeP, err := hlRange(sec, ts, offset)
	if err != nil {
		return decimalx.Zero, err
	}
	prevClose, err := sec.Series().GetClose(ts, offset+1)
	if err != nil {
		return decimalx.Zero, err
	}
	return decimalx.Max(closeP.Sub(prevClose).Abs(), high.Sub(low)), nil
}

// valueChartUnits returns avgPrice and avgTR over the 5-bar window
// [BaseOffset, BaseOffset+4], the shared inputs to ValueChartHigh/Low.
func valueChartUnits(sec *security.Security, ts time.Time, baseOffset int) (avgPrice, avgTR decimalx.Decimal, err error) {
	priceSum := decimalx.Zero
	trSum := decimalx.Zero
	for o := baseOffset; o <= baseOffset+4; o++ {
		high, low, _, herr := hlRange(sec, ts, o)
		if herr != nil {
			return decimalx.Zero, decimalx.Zero, herr
		}
		priceSum = priceSum.Add(high.Add(low).Div(two))
		tr, terr := trueRangeAt(sec, ts, o)
		if terr != nil {
			return decimalx.Zero, decimalx.Zero, terr
		}
		trSum = trSum.Add(tr)
	}
	return priceSum.Div(five), trSum.Div(five), nil
}

// ValueChartHigh is (High[base]-avgPrice)/(avgTR*0.20), 0 when the
// volatility unit is 0.
type ValueChartHigh struct{ BaseOffset int }

func (v ValueChartHigh) Lookback() int { return v.BaseOffset + 5 }

func (v ValueChartHigh) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	avgPrice, avgTR, err := valueChartUnits(sec, ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	unit := avgTR.Mul(oneFifth)
	if unit.IsZero() {
		return decimalx.Zero, nil
	}
	high, _, _, err := hlRange(sec, ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	return high.Sub(avgPrice).Div(unit), nil
}

// ValueChartLow is (Low[base]-avgPrice)/(avgTR*0.20), 0 when the
// volatility unit is 0.
type ValueChartLow struct{ BaseOffset int }

func (v ValueChartLow) Lookback() int { return v.BaseOffset + 5 }

func (v ValueChartLow) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	avgPrice, avgTR, err := valueChartUnits(sec, ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	unit := avgTR.Mul(oneFifth)
	if unit.IsZero() {
		return decimalx.Zero, nil
	}
	_, low, _, err := hlRange(sec, ts, v.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	return low.Sub(avgPrice).Div(unit), nil
}

// Meander is the legacy indicator Close[base]*(1+avg), where avg sums
// four PrevClose-normalized quantities over the 5-bar window and
// divides by 20. It fails when any PrevClose is 0.
type Meander struct{ BaseOffset int }

func (m Meander) Lookback() int { return m.BaseOffset + 5 }

func (m Meander) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	sum := decimalx.Zero
	for o := m.BaseOffset; o <= m.BaseOffset+4; o++ {
		openP, low, high, closeP, prevClose, err := meanderBars(sec, ts, o)
		if err != nil {
			return decimalx.Zero, err
		}
		if prevClose.IsZero() {
			return decimalx.Zero, errZeroPrevClose
		}
		sum = sum.Add(openP.Sub(prevClose).Div(prevClose))
		sum = sum.Add(high.Sub(prevClose).Div(prevClose))
		sum = sum.Add(low.Sub(prevClose).Div(prevClose))
		sum = sum.Add(closeP.Sub(prevClose).Div(prevClose))
	}
	avg := sum.Div(twenty)
	base, err := sec.Series().GetClose(ts, m.BaseOffset)
	if err != nil {
		return decimalx.Zero, err
	}
	return base.Mul(decimalx.One.Add(avg)), nil
}

func meanderBars(sec *security.Security, ts time.Time, offset int) (openP, low, high, closeP, prevClose decimalx.Decimal, err error) {
	high, low, closeP, err = hlRange(sec, ts, offset)
	if err != nil {
		return
	}
	openP, err = sec.Series().GetOpen(ts, offset)
	if err != nil {
		return
	}
	prevClose, err = sec.Series().GetClose(ts, offset+1)
	return
}
