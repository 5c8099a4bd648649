package bms

// Bilinear interpolation over the embedded tables. Out-of-range queries clamp
// to the table boundary and never fail.

// axisCell locates the grid cell containing x and the fractional position
// inside it. x is clamped to the axis range; a degenerate cell returns the
// lower neighbor (fraction 0).
func axisCell(axis []float64, x float64) (int, float64) {
	n := len(axis)
	if x <= axis[0] {
		return 0, 0
	}
	if x >= axis[n-1] {
		return n - 2, 1
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if axis[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	den := axis[lo+1] - axis[lo]
	if den <= 0 {
		return lo, 0
	}
	return lo, (x - axis[lo]) / den
}

// bilinear blends the four corner values of the cell enclosing (x, y).
func bilinear(xAxis, yAxis []float64, at func(i, j int) float64, x, y float64) float64 {
	i, fx := axisCell(xAxis, x)
	j, fy := axisCell(yAxis, y)

	z00 := at(i, j)
	z10 := at(i+1, j)
	z01 := at(i, j+1)
	z11 := at(i+1, j+1)

	lower := z00 + fx*(z10-z00)
	upper := z01 + fx*(z11-z01)
	return lower + fy*(upper-lower)
}

// LookupSOC returns the open-circuit SOC (%) for a terminal voltage (Volts)
// and temperature (Kelvin). Inputs outside the table range clamp silently.
func LookupSOC(voltageV, tempK float64) float64 {
	return bilinear(vAxis[:], tAxis[:], func(i, j int) float64 {
		return socTable[i][j]
	}, voltageV, tempK)
}

// LookupResistance returns the pack internal resistance (Ohms) for a SOC (%)
// and temperature (Kelvin). Inputs outside the table range clamp silently.
func LookupResistance(socPercent, tempK float64) float64 {
	return bilinear(socAxisR[:], tAxis[:], func(i, j int) float64 {
		return rTable[i][j]
	}, socPercent, tempK)
}

// ocvFromSOC inverts the SOC table along the given temperature: it returns
// the terminal voltage whose LookupSOC equals socPercent. The columns are
// monotone in V, so a scan over the voltage grid suffices.
func ocvFromSOC(socPercent, tempK float64) float64 {
	j, fy := axisCell(tAxis[:], tempK)
	colAt := func(i int) float64 {
		return socTable[i][j] + fy*(socTable[i][j+1]-socTable[i][j])
	}

	if socPercent <= colAt(0) {
		return vAxis[0]
	}
	for i := 0; i < len(vAxis)-1; i++ {
		s0, s1 := colAt(i), colAt(i+1)
		if socPercent > s1 {
			continue
		}
		if s1 <= s0 {
			return vAxis[i]
		}
		f := (socPercent - s0) / (s1 - s0)
		return vAxis[i] + f*(vAxis[i+1]-vAxis[i])
	}
	return vAxis[len(vAxis)-1]
}

// PredictCurrent estimates the current (Amps, positive = charging) implied by
// a terminal voltage and temperature: the residual between the measured
// voltage and the OCV reconstructed from the SOC table, over the internal
// resistance at that operating point. Diagnostic only; the estimator does not
// consume it.
func PredictCurrent(voltageV, tempK float64) float64 {
	soc := LookupSOC(voltageV, tempK)
	ocv := ocvFromSOC(soc, tempK)
	r := LookupResistance(soc, tempK)
	if r <= 0 {
		return 0
	}
	return (voltageV - ocv) / r
}
