package service

import (
	"math"

	"pumpselect/model"
)

// bepShift BEP 迁移结果
type bepShift struct {
	Flow       float64
	Head       float64
	QbpPercent float64 // 运行流量占迁移后 BEP 流量的百分比
	Known      bool
}

// shiftBep 按直径比的幂次迁移铭牌 BEP。切削并不是均匀缩放整条曲线，
// BEP 本身会物理迁移；不修正会系统性误判工况点与最优点的距离
func (e *Engine) shiftBep(pump *model.Pump, ratio float64, exps ExponentSet, opFlow float64) bepShift {
	if pump.BepFlow <= 0 || pump.BepHead <= 0 {
		return bepShift{}
	}

	s := bepShift{
		Flow:  pump.BepFlow * math.Pow(ratio, exps.Flow),
		Head:  pump.BepHead * math.Pow(ratio, exps.Head),
		Known: true,
	}
	if s.Flow > 0 && opFlow > 0 {
		s.QbpPercent = opFlow / s.Flow * 100
	}
	return s
}

// applyQbpPenalty 真实 QBP% 超过阈值时按超出量线性扣减效率，
// 扣减封顶，且修正后效率不得低于下限——绝不允许出现负值或离谱的低效率
func (e *Engine) applyQbpPenalty(efficiency, qbpPercent float64) float64 {
	if qbpPercent > e.calib.QbpPenaltyThreshold {
		penalty := (qbpPercent - e.calib.QbpPenaltyThreshold) * e.calib.QbpPenaltyRate
		if penalty > e.calib.QbpPenaltyCap {
			penalty = e.calib.QbpPenaltyCap
		}
		efficiency -= penalty
	}
	if efficiency < e.calib.MinEfficiency {
		efficiency = e.calib.MinEfficiency
	}
	return efficiency
}
