package service

import (
	"math"

	"pumpselect/model"
)

// interpPoint 插值结果。缺失量不补零：HasPower/HasNpsh 为 false 时
// 对应数值无意义
type interpPoint struct {
	Head       float64
	Efficiency float64
	Power      float64
	HasPower   bool
	Npsh       float64
	HasNpsh    bool
}

// validPoints 过滤出可用采样点（流量>0 且扬程>0），保持升序
func validPoints(points []model.CurvePoint) []model.CurvePoint {
	out := make([]model.CurvePoint, 0, len(points))
	for _, p := range points {
		if p.Flow > 0 && p.Head > 0 &&
			!math.IsNaN(p.Head) && !math.IsNaN(p.Flow) {
			out = append(out, p)
		}
	}
	return out
}

// curveUsable 少于 2 个有效点的曲线不可用，跳过而不是让调用方崩溃
func curveUsable(c *model.PumpCurve) bool {
	return c != nil && len(validPoints(c.Points)) >= 2
}

// referenceCurve 选取参考曲线：有效曲线中叶轮直径最大的一条。
// 行业惯例是从最大叶轮往下切削，绝不从小叶轮往上外推
func referenceCurve(pump *model.Pump) *model.PumpCurve {
	var best *model.PumpCurve
	for i := range pump.Curves {
		c := &pump.Curves[i]
		if !curveUsable(c) {
			continue
		}
		if best == nil || c.Diameter > best.Diameter {
			best = c
		}
	}
	return best
}

// flowRange 曲线有效点的流量范围
func flowRange(points []model.CurvePoint) (minFlow, maxFlow float64, ok bool) {
	pts := validPoints(points)
	if len(pts) < 2 {
		return 0, 0, false
	}
	minFlow, maxFlow = pts[0].Flow, pts[0].Flow
	for _, p := range pts[1:] {
		if p.Flow < minFlow {
			minFlow = p.Flow
		}
		if p.Flow > maxFlow {
			maxFlow = p.Flow
		}
	}
	return minFlow, maxFlow, true
}

// interpolateAtFlow 在曲线上按流量线性插值扬程/效率/功率/NPSH。
// 目标流量落在容差带 [min×(1-tol), max×(1+tol)] 之外时返回 ok=false，
// 绝不悄悄截断到端点值；带内但超出采样范围时用最近线段线性外推
func interpolateAtFlow(points []model.CurvePoint, flow, tol float64) (interpPoint, bool) {
	var out interpPoint

	pts := validPoints(points)
	if len(pts) < 2 || flow <= 0 {
		return out, false
	}

	lo, hi := pts[0], pts[len(pts)-1]
	if flow < lo.Flow*(1-tol) || flow > hi.Flow*(1+tol) {
		return out, false
	}

	// 找到包住目标流量的线段；带内外推时取端部线段
	i := 0
	for i < len(pts)-2 && pts[i+1].Flow < flow {
		i++
	}
	a, b := pts[i], pts[i+1]
	if b.Flow == a.Flow {
		return out, false
	}
	t := (flow - a.Flow) / (b.Flow - a.Flow)

	out.Head = a.Head + t*(b.Head-a.Head)
	out.Efficiency = a.Efficiency + t*(b.Efficiency-a.Efficiency)

	if a.Power != nil && b.Power != nil {
		out.Power = *a.Power + t*(*b.Power-*a.Power)
		out.HasPower = out.Power > 0
	}
	if a.Npsh != nil && b.Npsh != nil {
		out.Npsh = *a.Npsh + t*(*b.Npsh-*a.Npsh)
		out.HasNpsh = out.Npsh > 0
	}

	if math.IsNaN(out.Head) || math.IsInf(out.Head, 0) || out.Head <= 0 {
		return interpPoint{}, false
	}
	if out.Efficiency < 0 {
		out.Efficiency = 0
	}
	return out, true
}

// hydraulicPowerKw 按水力公式推算轴功率：ρgQH/η。
// 必须用实际运行扬程，不是泵的原始输送能力
func hydraulicPowerKw(flowM3h, headM, efficiencyPct, densityKgM3 float64) float64 {
	if flowM3h <= 0 || headM <= 0 || efficiencyPct <= 0 {
		return 0
	}
	qs := flowM3h / 3600.0
	return densityKgM3 * 9.80665 * qs * headM / (efficiencyPct / 100.0) / 1000.0
}
