package service

import (
	"fmt"

	"pumpselect/pkg/conf"
)

// CalibrationFactors 选型计算的全部标定系数。进程启动时从配置加载一次，
// 以只读方式注入 Engine，求解器不得再读全局配置
type CalibrationFactors struct {
	// 曲线插值
	FlowTolerance float64 // 流量外推容差（占曲线范围比例）
	HeadTolerance float64 // 扬程满足容差

	// 叶轮切削
	MinTrimPercent     float64 // 切削下限，百分比
	SmallTrimThreshold float64 // 小切削判定阈值（直径削减比例）
	SmallTrimExponent  float64 // 小切削时的扬程指数
	LargeTrimExponent  float64 // 深切削时的扬程指数
	VolutePenalty      float64 // 蜗壳式切削效率损失系数 ε
	DiffuserPenalty    float64 // 导叶式切削效率损失系数 ε
	BepNarrowBand      float64 // 近 BEP 流量偏差带，带内用铭牌效率

	// BEP 迁移修正
	QbpPenaltyThreshold float64 // 真实 QBP% 超限阈值
	QbpPenaltyRate      float64 // 超限部分每 1% 的效率惩罚
	QbpPenaltyCap       float64 // 惩罚上限（效率百分点）
	MinEfficiency       float64 // 修正后效率下限

	// NPSH 劣化
	NpshDegradeThreshold float64 // 切削深度超过该值后加速劣化
	NpshDegradeFactor    float64 // 劣化放大系数

	// 切削寻优
	TrimStepPercent  float64 // 候选步长
	HeadSafetyMargin float64 // 最小切削的扬程安全裕量系数
	ScoreWeightEff   float64 // 效率权重
	ScoreWeightBep   float64 // BEP 接近度权重
	ScoreWeightHead  float64 // 扬程裕量权重

	// 变频求解
	StaticHeadRatio      float64 // 静扬程占目标扬程的比例
	SystemCurveTolerance float64 // 系统曲线匹配容差
	LineFrequency        float64 // 电网频率 Hz

	// 流体
	FluidDensity float64 // kg/m³
}

// LoadCalibration 从配置加载标定系数，任何必填键缺失立即报错，
// 绝不在公式内部补默认值
func LoadCalibration() (CalibrationFactors, error) {
	var (
		c   CalibrationFactors
		err error
	)

	read := func(dst *float64, section, key string) {
		if err != nil {
			return
		}
		var v float64
		if v, err = conf.Float(section, key); err == nil {
			*dst = v
		}
	}

	read(&c.FlowTolerance, "curve", "flow_tolerance")
	read(&c.HeadTolerance, "curve", "head_tolerance")

	read(&c.MinTrimPercent, "trim", "min_trim_percent")
	read(&c.SmallTrimThreshold, "trim", "small_trim_threshold")
	read(&c.SmallTrimExponent, "trim", "small_trim_exponent")
	read(&c.LargeTrimExponent, "trim", "large_trim_exponent")
	read(&c.VolutePenalty, "trim", "volute_penalty")
	read(&c.DiffuserPenalty, "trim", "diffuser_penalty")
	read(&c.BepNarrowBand, "trim", "bep_narrow_band")

	read(&c.QbpPenaltyThreshold, "bep", "qbp_penalty_threshold")
	read(&c.QbpPenaltyRate, "bep", "qbp_penalty_rate")
	read(&c.QbpPenaltyCap, "bep", "qbp_penalty_cap")
	read(&c.MinEfficiency, "bep", "min_efficiency")

	read(&c.NpshDegradeThreshold, "npsh", "degrade_threshold")
	read(&c.NpshDegradeFactor, "npsh", "degrade_factor")

	read(&c.TrimStepPercent, "search", "trim_step_percent")
	read(&c.HeadSafetyMargin, "search", "head_safety_margin")
	read(&c.ScoreWeightEff, "search", "weight_efficiency")
	read(&c.ScoreWeightBep, "search", "weight_bep")
	read(&c.ScoreWeightHead, "search", "weight_head_margin")

	read(&c.StaticHeadRatio, "vfd", "static_head_ratio")
	read(&c.SystemCurveTolerance, "vfd", "system_curve_tolerance")
	read(&c.LineFrequency, "vfd", "line_frequency")

	read(&c.FluidDensity, "fluid", "density")

	if err != nil {
		return CalibrationFactors{}, fmt.Errorf("加载标定系数失败: %w", err)
	}
	return c, nil
}

// DefaultCalibration 与 pumpselect.yaml 出厂值一致，供脚本与单元测试使用。
// 属于配置层的默认值，核心算法不依赖它
func DefaultCalibration() CalibrationFactors {
	return CalibrationFactors{
		FlowTolerance: 0.10,
		HeadTolerance: 0.02,

		MinTrimPercent:     85,
		SmallTrimThreshold: 0.03,
		SmallTrimExponent:  2.9,
		LargeTrimExponent:  2.1,
		VolutePenalty:      0.20,
		DiffuserPenalty:    0.45,
		BepNarrowBand:      0.05,

		QbpPenaltyThreshold: 110,
		QbpPenaltyRate:      0.08,
		QbpPenaltyCap:       5,
		MinEfficiency:       10,

		NpshDegradeThreshold: 0.10,
		NpshDegradeFactor:    1.15,

		TrimStepPercent:  1,
		HeadSafetyMargin: 1.002,
		ScoreWeightEff:   0.5,
		ScoreWeightBep:   0.3,
		ScoreWeightHead:  0.2,

		StaticHeadRatio:      0.4,
		SystemCurveTolerance: 0.02,
		LineFrequency:        50,

		FluidDensity: 1000,
	}
}
