package service

import (
	"math"
	"sort"

	"pumpselect/model"
)

// BEP 邻近度加权距离的流量/扬程权重。流量偏差对运行工况的影响
// 大于扬程偏差，权重向流量倾斜
const (
	proximityFlowWeight = 0.6
	proximityHeadWeight = 0.4
)

// PerformanceAtFlow 诊断用：全直径下目标流量处的性能估算，容差放宽
// 一倍。allowExcessiveTrim 为 true 时进一步放宽到两倍容差带，用于
// 邻近度检索这类咨询性场景。无法估算时返回 ok=false，不给猜测值
func (e *Engine) PerformanceAtFlow(pump *model.Pump, flow float64, allowExcessiveTrim bool) (*PerformanceEstimate, bool) {
	curve := referenceCurve(pump)
	if curve == nil || flow <= 0 {
		return nil, false
	}

	tol := e.calib.FlowTolerance * 2
	if allowExcessiveTrim {
		tol = e.calib.FlowTolerance * 4
	}
	ip, ok := interpolateAtFlow(curve.Points, flow, tol)
	if !ok {
		return nil, false
	}

	est := &PerformanceEstimate{
		Flow:        flow,
		Head:        ip.Head,
		Efficiency:  ip.Efficiency,
		TrimPercent: 100,
		Npsh:        ip.Npsh,
		HasNpsh:     ip.HasNpsh,
	}
	if ip.HasPower {
		est.Power = ip.Power
	} else {
		est.Power = hydraulicPowerKw(flow, ip.Head, ip.Efficiency, e.calib.FluidDensity)
	}
	if pump.BepFlow > 0 {
		est.QbpPercent = flow / pump.BepFlow * 100
	}
	return est, true
}

// RankByProximity 独立的咨询性排序：按比转速做水力类型划分，
// 按 (流量比, 扬程比) 到铭牌 BEP 的加权距离升序排列。
// 缺 BEP 的泵无法参与，直接跳过
func (e *Engine) RankByProximity(pumps []*model.Pump, flow, head float64, limit int) []ProximityMatch {
	matches := make([]ProximityMatch, 0, len(pumps))

	for _, pump := range pumps {
		if pump.BepFlow <= 0 || pump.BepHead <= 0 {
			continue
		}

		flowRatio := flow / pump.BepFlow
		headRatio := head / pump.BepHead
		distance := math.Sqrt(
			proximityFlowWeight*math.Pow(flowRatio-1, 2) +
				proximityHeadWeight*math.Pow(headRatio-1, 2))

		nq := SpecificSpeed(pump.TestSpeed, pump.BepFlow, pump.BepHead)
		m := ProximityMatch{
			PumpCode:      pump.Code,
			PumpName:      pump.Name,
			HydraulicType: ClassifyHydraulicType(nq),
			FlowRatio:     flowRatio,
			HeadRatio:     headRatio,
			Distance:      distance,
		}
		if !math.IsNaN(nq) {
			m.SpecificSpeed = nq
		}
		if est, ok := e.PerformanceAtFlow(pump, flow, true); ok {
			m.Estimate = est
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].PumpCode < matches[j].PumpCode
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
