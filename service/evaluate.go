package service

import (
	"sort"

	"pumpselect/model"
	"pumpselect/pkg/logger"
)

// 档位划分阈值
const (
	tierPreferredMin  = 85.0
	tierAllowableMin  = 70.0
	tierAcceptableMin = 50.0
)

// resolveModality 按两个独立能力标志确定评估路径
func resolveModality(pump *model.Pump) Modality {
	switch {
	case pump.VariableSpeed && pump.VariableDiameter:
		return ModalityFlexible
	case pump.VariableDiameter:
		return ModalityTrimOnly
	case pump.VariableSpeed:
		return ModalityVfdOnly
	default:
		return ModalityFixed
	}
}

// Evaluate 单泵单工况评估。四种路径（可变速+可切削/仅切削/仅变频/定速）
// 各自终止：FLEXIBLE 两条路都算、取效率高的可行解；VFD_ONLY 转速超范围
// 是硬排除，绝不悄悄退回切削路径
func (e *Engine) Evaluate(pump *model.Pump, flow, head float64) *EvaluationResult {
	res := &EvaluationResult{
		PumpCode: pump.Code,
		PumpName: pump.Name,
		Modality: resolveModality(pump),
		Flow:     flow,
		Head:     head,
	}

	switch res.Modality {
	case ModalityFlexible:
		trim := e.OptimizeTrim(pump, flow, head)
		vfd := e.SolveSpeed(pump, flow, head)
		switch {
		case trim.OK && vfd.OK:
			if vfd.Efficiency > trim.Efficiency {
				fillFromVfd(res, vfd, pump)
			} else {
				fillFromTrim(res, trim)
			}
		case trim.OK:
			fillFromTrim(res, trim)
		case vfd.OK:
			fillFromVfd(res, vfd, pump)
		default:
			res.Feasible = false
			res.Reason = trim.Reason.String()
			return res
		}

	case ModalityTrimOnly:
		trim := e.OptimizeTrim(pump, flow, head)
		if !trim.OK {
			res.Feasible = false
			res.Reason = trim.Reason.String()
			return res
		}
		fillFromTrim(res, trim)

	case ModalityVfdOnly:
		vfd := e.SolveSpeed(pump, flow, head)
		if !vfd.OK {
			res.Feasible = false
			res.Reason = vfd.Reason.String()
			return res
		}
		fillFromVfd(res, vfd, pump)

	case ModalityFixed:
		fixed := e.evaluateFixed(pump, flow, head)
		if !fixed.OK {
			res.Feasible = false
			res.Reason = fixed.Reason.String()
			return res
		}
		fillFromTrim(res, fixed)
	}

	res.Feasible = true
	e.scoreResult(res, pump)
	return res
}

// evaluateFixed 定速定径：只能按铭牌条件运行，不做任何求解
func (e *Engine) evaluateFixed(pump *model.Pump, flow, head float64) TrimOutcome {
	curve := referenceCurve(pump)
	if curve == nil {
		return trimFailure(ReasonNoCurves)
	}
	ip, ok := interpolateAtFlow(curve.Points, flow, e.calib.FlowTolerance)
	if !ok {
		return trimFailure(ReasonFlowOutOfRange)
	}
	if ip.Head < head*(1-e.calib.HeadTolerance) {
		return trimFailure(ReasonHeadShortfall)
	}

	eff := ip.Efficiency
	var power float64
	if ip.HasPower {
		power = ip.Power
	} else {
		power = hydraulicPowerKw(flow, ip.Head, eff, e.calib.FluidDensity)
	}

	out := TrimOutcome{
		OK:           true,
		Ratio:        1,
		TrimPercent:  100,
		BaseDiameter: curve.Diameter,
		Diameter:     curve.Diameter,
		Head:         ip.Head,
		Efficiency:   eff,
		Power:        power,
		Npsh:         ip.Npsh,
		HasNpsh:      ip.HasNpsh,
		Limited:      ip.Head < head,
	}
	if pump.BepFlow > 0 {
		out.ShiftedBepFlow = pump.BepFlow
		out.ShiftedBepHead = pump.BepHead
		out.TrueQbpPercent = flow / pump.BepFlow * 100
	}
	return out
}

func fillFromTrim(res *EvaluationResult, t TrimOutcome) {
	res.Efficiency = t.Efficiency
	res.Power = t.Power
	res.Npsh = t.Npsh
	res.HasNpsh = t.HasNpsh
	res.Diameter = t.Diameter
	res.BaseDiameter = t.BaseDiameter
	res.TrimPercent = t.TrimPercent
	res.ShiftedBepFlow = t.ShiftedBepFlow
	res.ShiftedBepHead = t.ShiftedBepHead
	res.TrueQbpPercent = t.TrueQbpPercent
	if t.Limited {
		res.Head = t.Head // 容差内欠扬程，按实际可达扬程上报
	}
	res.limited = t.Limited
}

func fillFromVfd(res *EvaluationResult, v VfdOutcome, pump *model.Pump) {
	res.Efficiency = v.Efficiency
	res.Power = v.Power
	res.Npsh = v.Npsh
	res.HasNpsh = v.HasNpsh
	res.Speed = v.Speed
	res.SpeedRatioPercent = v.SpeedRatioPercent
	res.Frequency = v.Frequency
	res.TrimPercent = 100
	res.Diameter = maxDiameter(pump)
	res.BaseDiameter = res.Diameter
	if pump.BepFlow > 0 {
		// 纯变速下 BEP 随转速比例迁移
		ratio := v.Speed / pump.TestSpeed
		res.ShiftedBepFlow = pump.BepFlow * ratio
		res.ShiftedBepHead = pump.BepHead * ratio * ratio
		if res.ShiftedBepFlow > 0 {
			res.TrueQbpPercent = res.Flow / res.ShiftedBepFlow * 100
		}
	}
}

func maxDiameter(pump *model.Pump) float64 {
	if c := referenceCurve(pump); c != nil {
		return c.Diameter
	}
	return pump.MaxDiameter
}

// scoreResult 点数制多准则评分（沿用厂家销售工程惯例，而不是纯百分比
// 加权）：BEP 接近度最高 45 分、效率最高 35 分、扬程裕量最高 20 分，
// 再叠加扣分项。物理受限扣 50 分——压到最低档但保留可见，不排除。
// 注意：切削深度扣分只影响排序，绝不回写数值效率（效率的权威修正
// 在求解器里的 ε×(1−r) 与 BEP 迁移惩罚）
func (e *Engine) scoreResult(res *EvaluationResult, pump *model.Pump) {
	scores := make(map[string]float64, 6)

	// BEP 接近度：按流量比分带给分
	qbpRatio := 1.0
	if res.TrueQbpPercent > 0 {
		qbpRatio = res.TrueQbpPercent / 100
	}
	var bepPoints float64
	switch {
	case qbpRatio >= 0.95 && qbpRatio <= 1.05:
		bepPoints = 45
	case qbpRatio >= 0.90 && qbpRatio <= 1.10:
		bepPoints = 40
	case qbpRatio >= 0.80 && qbpRatio <= 1.20:
		bepPoints = 30
	case qbpRatio >= 0.70 && qbpRatio <= 1.30:
		bepPoints = 20
	default:
		bepPoints = 10
	}
	scores["bepProximity"] = bepPoints

	// 效率分带，分带内线性
	eff := res.Efficiency
	var effPoints float64
	switch {
	case eff >= 85:
		effPoints = 35
	case eff >= 75:
		effPoints = 28 + 7*(eff-75)/10
	case eff >= 65:
		effPoints = 20 + 8*(eff-65)/10
	case eff >= 45:
		effPoints = 8 + 12*(eff-45)/20
	case eff > 0:
		effPoints = 8 * eff / 45
	}
	scores["efficiency"] = effPoints

	// 扬程裕量：5% 以内满分，到 20% 线性降到 0
	marginPct := 0.0
	if res.Head > 0 && res.Flow > 0 {
		if delivered := e.deliveredHeadAtFlow(pump, res); delivered > res.Head {
			marginPct = (delivered - res.Head) / res.Head * 100
		}
	}
	var marginPoints float64
	switch {
	case marginPct <= 5:
		marginPoints = 20
	case marginPct < 20:
		marginPoints = 20 * (1 - (marginPct-5)/15)
	}
	scores["headMargin"] = marginPoints

	total := bepPoints + effPoints + marginPoints

	// 物理受限：压到最低档但不排除，保留边缘选项可见
	if res.limited {
		scores["physicalLimitation"] = -50
		total -= 50
	}

	// 切削深度扣分（仅排序用）
	if res.TrimPercent > 0 && res.TrimPercent < 100 {
		var trimPenalty float64
		switch {
		case res.TrimPercent < 85:
			trimPenalty = -10 // 求解器不会产出，防御性保留分带
		case res.TrimPercent < 90:
			trimPenalty = -5
		case res.TrimPercent < 95:
			trimPenalty = -2
		}
		if trimPenalty != 0 {
			scores["trimDepth"] = trimPenalty
			total += trimPenalty
		}
	}

	// 铭牌 BEP 扬程远高于需求的超配扣分
	if pump.BepHead > 0 && res.Head > 0 {
		overRatio := pump.BepHead / res.Head
		var oversizePenalty float64
		switch {
		case overRatio >= 1.8:
			oversizePenalty = -30
		case overRatio >= 1.4:
			oversizePenalty = -15 - 15*(overRatio-1.4)/0.4
		}
		if oversizePenalty != 0 {
			scores["bepOversizing"] = oversizePenalty
			total += oversizePenalty
		}
	}

	if total < 0 {
		total = 0
	}

	res.Scores = scores
	res.TotalScore = total
	switch {
	case total >= tierPreferredMin:
		res.Tier = TierPreferred
	case total >= tierAllowableMin:
		res.Tier = TierAllowable
	case total >= tierAcceptableMin:
		res.Tier = TierAcceptable
	default:
		res.Tier = TierMarginal
	}
}

// deliveredHeadAtFlow 当前配置（全直径）下目标流量处的可达扬程，
// 用于衡量裕量
func (e *Engine) deliveredHeadAtFlow(pump *model.Pump, res *EvaluationResult) float64 {
	curve := referenceCurve(pump)
	if curve == nil {
		return 0
	}
	ip, ok := interpolateAtFlow(curve.Points, res.Flow, e.calib.FlowTolerance)
	if !ok {
		return 0
	}
	return ip.Head
}

// Rank 批量评估并排序。单台泵的失败只记录原因，绝不中断其余泵的评估；
// 不可行的泵带原因排在所有已评分结果之后
func (e *Engine) Rank(pumps []*model.Pump, flow, head float64, c SelectionConstraints) []*EvaluationResult {
	results := make([]*EvaluationResult, 0, len(pumps))

	for _, pump := range pumps {
		if c.PumpType != "" && ClassifyPumpType(pump.PumpType) != ClassifyPumpType(c.PumpType) {
			continue
		}
		if c.Modality != "" && resolveModality(pump) != c.Modality {
			continue
		}

		if ok, rejections := e.CanDeliver(pump, flow, head); !ok {
			reason := ReasonHeadShortfall
			if len(rejections) > 0 {
				reason = rejections[0].Reason
			}
			if logger.Logger != nil {
				logger.Logger.Infof("泵 %s 预检未通过: %s", pump.Code, reason)
			}
			results = append(results, &EvaluationResult{
				PumpCode: pump.Code,
				PumpName: pump.Name,
				Modality: resolveModality(pump),
				Flow:     flow,
				Head:     head,
				Feasible: false,
				Reason:   reason.String(),
			})
			continue
		}

		results = append(results, e.Evaluate(pump, flow, head))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Feasible != results[j].Feasible {
			return results[i].Feasible
		}
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].PumpCode < results[j].PumpCode
	})

	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}
	return results
}
