package service

import (
	"math"

	"pumpselect/model"
)

// systemCurveScanSteps 参考曲线细分扫描步数，固定上界保证单次求解有界
const systemCurveScanSteps = 200

func vfdFailure(reason FailureReason) VfdOutcome {
	return VfdOutcome{OK: false, Reason: reason}
}

// SolveSpeed 变频路径：把下游管路建模为 H = H_static + k·Q² 的二次
// 系统曲线（H_static 取目标扬程的固定比例，k 由目标点反推），在参考
// 曲线上细分扫描找与系统曲线系数最匹配的点，再按相似定律反解所需
// 转速。纯变速下效率不变，功率按转速三次方、NPSH 按二次方缩放
func (e *Engine) SolveSpeed(pump *model.Pump, flow, head float64) VfdOutcome {
	if flow <= 0 || head <= 0 {
		return vfdFailure(ReasonBadInterpolation)
	}
	if pump.TestSpeed <= 0 || pump.MaxSpeed <= 0 {
		return vfdFailure(ReasonMissingSpeedRange)
	}

	curve := referenceCurve(pump)
	if curve == nil {
		return vfdFailure(ReasonNoCurves)
	}

	staticHead := head * e.calib.StaticHeadRatio
	k := (head - staticHead) / (flow * flow)
	if k <= 0 {
		return vfdFailure(ReasonBadInterpolation)
	}

	// 在曲线流量范围内细分扫描，找 (H₁-H_static)/Q₁² 最接近 k 的点
	minFlow, maxFlow, ok := flowRange(curve.Points)
	if !ok {
		return vfdFailure(ReasonNoCurves)
	}

	var (
		bestDev           = math.Inf(1)
		refFlow, refHead  float64
		refEff            float64
		refPower, refNpsh float64
		hasPower, hasNpsh bool
		foundMatch        bool
	)
	stepSize := (maxFlow - minFlow) / systemCurveScanSteps
	if stepSize <= 0 {
		return vfdFailure(ReasonNoCurves)
	}
	for i := 0; i <= systemCurveScanSteps; i++ {
		q := minFlow + float64(i)*stepSize
		ip, ok := interpolateAtFlow(curve.Points, q, e.calib.FlowTolerance)
		if !ok || ip.Head <= staticHead {
			continue
		}
		kk := (ip.Head - staticHead) / (q * q)
		dev := math.Abs(kk-k) / k
		if dev < bestDev {
			bestDev = dev
			refFlow, refHead, refEff = q, ip.Head, ip.Efficiency
			refPower, hasPower = ip.Power, ip.HasPower
			refNpsh, hasNpsh = ip.Npsh, ip.HasNpsh
			foundMatch = true
		}
	}

	// 匹配不够好时退回铭牌 BEP 作为参考点
	if !foundMatch || bestDev > e.calib.SystemCurveTolerance {
		if pump.BepFlow <= 0 || pump.BepHead <= 0 {
			return vfdFailure(ReasonMissingBep)
		}
		refFlow, refHead = pump.BepFlow, pump.BepHead
		refEff = pump.BepEfficiency
		if ip, ok := interpolateAtFlow(curve.Points, pump.BepFlow, e.calib.FlowTolerance); ok {
			if refEff <= 0 {
				refEff = ip.Efficiency
			}
			refPower, hasPower = ip.Power, ip.HasPower
			refNpsh, hasNpsh = ip.Npsh, ip.HasNpsh
		} else {
			hasPower, hasNpsh = false, false
		}
	}
	if refHead <= 0 {
		return vfdFailure(ReasonBadInterpolation)
	}

	// 相似定律：H ∝ n²，所需转速 = 试验转速 × √(目标扬程/参考扬程)
	speed := pump.TestSpeed * math.Sqrt(head/refHead)
	if speed > pump.MaxSpeed || (pump.MinSpeed > 0 && speed < pump.MinSpeed) {
		return vfdFailure(ReasonSpeedOutOfRange)
	}
	ratio := speed / pump.TestSpeed

	var power float64
	if hasPower {
		power = refPower * math.Pow(ratio, 3)
	} else {
		power = hydraulicPowerKw(flow, head, refEff, e.calib.FluidDensity)
	}

	var npsh float64
	if hasNpsh {
		npsh = refNpsh * ratio * ratio
	}

	return VfdOutcome{
		OK:                true,
		Speed:             speed,
		SpeedRatioPercent: ratio * 100,
		Frequency:         ratio * e.calib.LineFrequency,
		Head:              head,
		Efficiency:        refEff,
		Power:             power,
		Npsh:              npsh,
		HasNpsh:           hasNpsh,
		RefFlow:           refFlow,
		RefHead:           refHead,
	}
}
