package service

import (
	"fmt"
	"sort"

	"pumpselect/model"
)

// CanDeliver 快速可行性闸门：该泵是否存在一条曲线能在目标流量下
// 提供不低于 目标扬程×(1-容差) 的扬程。按直径从大到小逐条检查，
// 第一条满足即通过；全部失败时返回逐条的结构化否决原因，
// 让调用方能给出可诊断的排除说明而不是一个裸拒绝
func (e *Engine) CanDeliver(pump *model.Pump, flow, head float64) (bool, []CurveRejection) {
	if len(pump.Curves) == 0 {
		return false, []CurveRejection{{Reason: ReasonNoCurves, Detail: "泵无曲线数据"}}
	}

	curves := make([]*model.PumpCurve, 0, len(pump.Curves))
	for i := range pump.Curves {
		curves = append(curves, &pump.Curves[i])
	}
	sort.Slice(curves, func(i, j int) bool {
		return curves[i].Diameter > curves[j].Diameter
	})

	var rejections []CurveRejection
	for _, c := range curves {
		if !curveUsable(c) {
			rejections = append(rejections, CurveRejection{
				Diameter: c.Diameter,
				Reason:   ReasonNoCurves,
				Detail:   "有效采样点不足 2 个",
			})
			continue
		}

		minFlow, maxFlow, _ := flowRange(c.Points)
		ip, ok := interpolateAtFlow(c.Points, flow, e.calib.FlowTolerance)
		if !ok {
			rejections = append(rejections, CurveRejection{
				Diameter: c.Diameter,
				Reason:   ReasonFlowOutOfRange,
				Detail:   fmt.Sprintf("流量 %.1f 不在 [%.1f, %.1f] 容差带内", flow, minFlow, maxFlow),
			})
			continue
		}

		required := head * (1 - e.calib.HeadTolerance)
		if ip.Head < required {
			rejections = append(rejections, CurveRejection{
				Diameter: c.Diameter,
				Reason:   ReasonHeadShortfall,
				Detail:   fmt.Sprintf("可达扬程 %.2f m，低于要求 %.2f m", ip.Head, required),
			})
			continue
		}

		return true, nil
	}

	return false, rejections
}
