package service

// Engine 选型计算核心。纯同步计算，无共享可变状态：
// 同一泵快照、同一工况、同一标定系数下结果逐位一致，可并行调用
type Engine struct {
	calib CalibrationFactors
}

func NewEngine(calib CalibrationFactors) *Engine {
	return &Engine{calib: calib}
}

// Calibration 返回注入的标定系数副本
func (e *Engine) Calibration() CalibrationFactors {
	return e.calib
}
