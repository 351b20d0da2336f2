package service

import (
	"math"

	"pumpselect/model"
	"pumpselect/pkg/logger"
)

// roundTripTolerance 求解自检允差，仅用于核对幂律反解，绝不作为返回值
const roundTripTolerance = 0.005

func trimFailure(reason FailureReason) TrimOutcome {
	return TrimOutcome{OK: false, Reason: reason}
}

// headExponent 确定切削求解用的扬程指数。泵型有专属指数时直接用；
// 落到通用分类时改用与切削深度相关的指数——小切削相似定律保真度高
// （指数偏大），偏离设计点越远保真度越差（指数偏小）
func (e *Engine) headExponent(class PumpClass, targetHead, baseHead float64) float64 {
	exps := class.Exponents()
	if class != ClassDefault {
		return exps.Head
	}

	// 先用经典指数试解一次，按切削深度选档
	provisional := math.Pow(targetHead/baseHead, 1.0/exps.Head)
	if 1-provisional <= e.calib.SmallTrimThreshold {
		return e.calib.SmallTrimExponent
	}
	return e.calib.LargeTrimExponent
}

// trimEpsilon 切削效率损失系数 ε：蜗壳式约 0.20，导叶/透平式约 0.45
func (e *Engine) trimEpsilon(class PumpClass) float64 {
	if class.IsDiffuserType() {
		return e.calib.DiffuserPenalty
	}
	return e.calib.VolutePenalty
}

// SolveTrim 核心算法：给定参考（最大直径）曲线与目标工况，
// 反解所需叶轮直径比并推导切削后的效率/功率/NPSH。
// 失败类别（无曲线/扬程不足/切削超限/插值无效）彼此可区分
func (e *Engine) SolveTrim(pump *model.Pump, flow, head float64) TrimOutcome {
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
	if math.IsNaN(baseHead) || baseHead <= 0 {
		return trimFailure(ReasonBadInterpolation)
	}

	// 硬性物理极限：全直径都到不了的扬程，不近似、不放水
	if baseHead < head*(1-e.calib.HeadTolerance) {
		return trimFailure(ReasonHeadShortfall)
	}

	class := ClassifyPumpType(pump.PumpType)
	exps := class.Exponents()
	headExp := e.headExponent(class, math.Min(head, baseHead), baseHead)

	// 切削只会降扬程：目标低于全直径能力时反解直径比，
	// 目标略高（容差内）时只能全直径运行
	ratio := 1.0
	limited := false
	operatingHead := head
	if head <= baseHead {
		ratio = math.Pow(head/baseHead, 1.0/headExp)
	} else {
		operatingHead = baseHead
		limited = true
	}
	if ratio > 1 {
		ratio = 1
	}

	trimPercent := ratio * 100
	if trimPercent < e.calib.MinTrimPercent {
		return trimFailure(ReasonTrimBeyondLimit)
	}

	// 自检：按幂律回代应复现目标扬程，偏差超限说明指数选取有问题
	if head <= baseHead {
		if check := baseHead * math.Pow(ratio, headExp); math.Abs(check-head)/head > roundTripTolerance {
			if logger.Logger != nil {
				logger.Logger.Warnf("泵 %s 切削回代偏差过大: 目标 %.3f 回代 %.3f", pump.Code, head, check)
			}
		}
	}

	// 效率：近 BEP 带内用铭牌效率，否则用曲线插值，再扣结构型式损失
	baseEff := ip.Efficiency
	if pump.BepFlow > 0 && pump.BepEfficiency > 0 &&
		math.Abs(flow/pump.BepFlow-1) <= e.calib.BepNarrowBand {
		baseEff = pump.BepEfficiency
	}
	efficiency := baseEff - e.trimEpsilon(class)*(1-ratio)*100

	// BEP 迁移修正
	shift := e.shiftBep(pump, ratio, exps, flow)
	if shift.Known {
		efficiency = e.applyQbpPenalty(efficiency, shift.QbpPercent)
	} else if efficiency < e.calib.MinEfficiency {
		efficiency = e.calib.MinEfficiency
	}

	// 功率：有采样值按幂律缩放，否则按水力公式用实际运行扬程推算
	var power float64
	if ip.HasPower {
		power = ip.Power * math.Pow(ratio, exps.Power)
	} else {
		power = hydraulicPowerKw(flow, operatingHead, efficiency, e.calib.FluidDensity)
	}

	// NPSH：幂律缩放；切削超过阈值后汽蚀裕量恶化快于幂律，额外放大
	var npsh float64
	hasNpsh := ip.HasNpsh
	if hasNpsh {
		npsh = ip.Npsh * math.Pow(ratio, exps.Npsh)
		if 1-ratio > e.calib.NpshDegradeThreshold {
			npsh *= e.calib.NpshDegradeFactor
		}
	}

	out := TrimOutcome{
		OK:           true,
		Ratio:        ratio,
		TrimPercent:  trimPercent,
		BaseDiameter: curve.Diameter,
		Diameter:     curve.Diameter * ratio,
		Head:         operatingHead,
		Efficiency:   efficiency,
		Power:        power,
		Npsh:         npsh,
		HasNpsh:      hasNpsh,
		Limited:      limited,
	}
	if shift.Known {
		out.ShiftedBepFlow = shift.Flow
		out.ShiftedBepHead = shift.Head
		out.TrueQbpPercent = shift.QbpPercent
	}
	return out
}
