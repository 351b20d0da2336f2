package service

import (
	"math"

	"pumpselect/model"
)

// trimCandidate 枚举候选。确定性与可复现性优先于渐近效率：
// 候选数量有界（典型 ≤20），暴力枚举即可，不许换成牺牲复现性的启发式
type trimCandidate struct {
	ratio       float64
	trimPercent float64
	head        float64
	efficiency  float64
	qbpPercent  float64
	score       float64
}

// OptimizeTrim 在满足扬程要求的最小切削与 100% 之间按固定步长枚举
// 候选切削比，按 效率/BEP 接近度/扬程裕量 的加权得分取最优。
// 与 SolveTrim 的闭式解不同，这里找的是"更好"而不只是"可行"
func (e *Engine) OptimizeTrim(pump *model.Pump, flow, head float64) TrimOutcome {
	if flow <= 0 || head <= 0 {
		return trimFailure(ReasonBadInterpolation)
	}

	curve := referenceCurve(pump)
	if curve == nil {
		return trimFailure(ReasonNoCurves)
	}
	ip, ok := interpolateAtFlow(curve.Points, flow, e.calib.FlowTolerance)
	if !ok {
		return trimFailure(ReasonFlowOutOfRange)
	}
	baseHead := ip.Head
	if baseHead <= 0 || math.IsNaN(baseHead) {
		return trimFailure(ReasonBadInterpolation)
	}
	if baseHead < head*(1-e.calib.HeadTolerance) {
		return trimFailure(ReasonHeadShortfall)
	}

	class := ClassifyPumpType(pump.PumpType)
	exps := class.Exponents()
	headExp := e.headExponent(class, math.Min(head, baseHead), baseHead)

	// 满足扬程要求（带安全裕量）的最小切削比
	minRatio := 1.0
	if head < baseHead {
		minRatio = math.Pow(head*e.calib.HeadSafetyMargin/baseHead, 1.0/headExp)
		if minRatio > 1 {
			minRatio = 1
		}
	}
	minPercent := minRatio * 100
	if minPercent < e.calib.MinTrimPercent {
		minPercent = e.calib.MinTrimPercent
	}

	// 候选集：最小切削与 100% 两个端点必含，中间按步长取整枚举
	var percents []float64
	percents = append(percents, minPercent)
	step := e.calib.TrimStepPercent
	if step <= 0 {
		step = 1
	}
	for p := math.Ceil(minPercent/step) * step; p < 100; p += step {
		if p > minPercent {
			percents = append(percents, p)
		}
	}
	if minPercent < 100 {
		percents = append(percents, 100)
	}

	baseEff := ip.Efficiency
	if pump.BepFlow > 0 && pump.BepEfficiency > 0 &&
		math.Abs(flow/pump.BepFlow-1) <= e.calib.BepNarrowBand {
		baseEff = pump.BepEfficiency
	}
	epsilon := e.trimEpsilon(class)

	var best *trimCandidate
	for _, pct := range percents {
		r := pct / 100
		delivered := baseHead * math.Pow(r, headExp)
		if delivered < head*(1-e.calib.HeadTolerance) {
			continue // 欠扬程超容差，淘汰
		}

		eff := baseEff - epsilon*(1-r)*100
		shift := e.shiftBep(pump, r, exps, flow)
		qbp := 100.0
		if shift.Known {
			qbp = shift.QbpPercent
			eff = e.applyQbpPenalty(eff, qbp)
		} else if eff < e.calib.MinEfficiency {
			eff = e.calib.MinEfficiency
		}

		// BEP 接近度：真实 QBP 偏离 100% 越远越差，50% 偏差封底
		bepCloseness := 1 - math.Min(math.Abs(qbp-100)/50, 1)

		// 扬程裕量接近度：超供 20% 以上记 0
		margin := (delivered - head) / head
		if margin < 0 {
			margin = 0
		}
		headCloseness := 1 - math.Min(margin/0.20, 1)

		score := e.calib.ScoreWeightEff*(eff/100) +
			e.calib.ScoreWeightBep*bepCloseness +
			e.calib.ScoreWeightHead*headCloseness

		cand := trimCandidate{
			ratio:       r,
			trimPercent: pct,
			head:        delivered,
			efficiency:  eff,
			qbpPercent:  qbp,
			score:       score,
		}
		// 同分取切削更浅的候选，保证结果确定
		if best == nil || cand.score > best.score ||
			(cand.score == best.score && cand.trimPercent > best.trimPercent) {
			c := cand
			best = &c
		}
	}

	if best == nil {
		return trimFailure(ReasonTrimBeyondLimit)
	}

	// 按选中的切削比推导完整工况
	var power float64
	if ip.HasPower {
		power = ip.Power * math.Pow(best.ratio, exps.Power)
	} else {
		power = hydraulicPowerKw(flow, best.head, best.efficiency, e.calib.FluidDensity)
	}

	var npsh float64
	hasNpsh := ip.HasNpsh
	if hasNpsh {
		npsh = ip.Npsh * math.Pow(best.ratio, exps.Npsh)
		if 1-best.ratio > e.calib.NpshDegradeThreshold {
			npsh *= e.calib.NpshDegradeFactor
		}
	}

	out := TrimOutcome{
		OK:           true,
		Ratio:        best.ratio,
		TrimPercent:  best.trimPercent,
		BaseDiameter: curve.Diameter,
		Diameter:     curve.Diameter * best.ratio,
		Head:         best.head,
		Efficiency:   best.efficiency,
		Power:        power,
		Npsh:         npsh,
		HasNpsh:      hasNpsh,
		Limited:      best.head < head,
	}
	if shift := e.shiftBep(pump, best.ratio, exps, flow); shift.Known {
		out.ShiftedBepFlow = shift.Flow
		out.ShiftedBepHead = shift.Head
		out.TrueQbpPercent = shift.QbpPercent
	}
	return out
}
