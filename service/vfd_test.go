package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpselect/model"
)

func TestSolveSpeedBasic(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	out := e.SolveSpeed(pump, 200, 40)
	require.True(t, out.OK)

	// 目标扬程低于参考点扬程，转速必然下调
	assert.Less(t, out.Speed, pump.TestSpeed)
	assert.GreaterOrEqual(t, out.Speed, pump.MinSpeed)
	assert.LessOrEqual(t, out.Speed, pump.MaxSpeed)

	// 频率与转速比严格对应：ratio × 50Hz
	ratio := out.Speed / pump.TestSpeed
	assert.InDelta(t, ratio*100, out.SpeedRatioPercent, 1e-9)
	assert.InDelta(t, ratio*50, out.Frequency, 1e-9)

	assert.Equal(t, 40.0, out.Head)
	assert.Greater(t, out.Efficiency, 0.0)
	assert.Greater(t, out.Power, 0.0)
	assert.Greater(t, out.RefHead, 0.0)
	assert.Greater(t, out.RefFlow, 0.0)
}

func TestSolveSpeedOutOfRange(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.MinSpeed = 1400

	// 所需转速约 1340 rpm，低于下限：硬排除
	out := e.SolveSpeed(pump, 200, 40)
	assert.False(t, out.OK)
	assert.Equal(t, ReasonSpeedOutOfRange, out.Reason)
}

func TestSolveSpeedMissingSpeedRange(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.TestSpeed = 0

	out := e.SolveSpeed(pump, 200, 40)
	assert.False(t, out.OK)
	assert.Equal(t, ReasonMissingSpeedRange, out.Reason)
	assert.True(t, out.Reason.IsDataIssue())
}

func TestSolveSpeedBepFallbackRequiresBep(t *testing.T) {
	e := newTestEngine()

	// 曲线流量范围与工况相距甚远，系统曲线匹配必然失败；
	// 又没有铭牌 BEP 可退，只能报数据缺陷
	pump := &model.Pump{
		Code:      "TP-STEEP",
		TestSpeed: 1450,
		MinSpeed:  900,
		MaxSpeed:  1600,
		Curves: []model.PumpCurve{{
			Diameter: 300,
			Points: []model.CurvePoint{
				{Flow: 10, Head: 100, Efficiency: 40},
				{Flow: 20, Head: 95, Efficiency: 45},
			},
		}},
	}
	out := e.SolveSpeed(pump, 200, 50)
	assert.False(t, out.OK)
	assert.Equal(t, ReasonMissingBep, out.Reason)
}

func TestSolveSpeedNpshScaling(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	out := e.SolveSpeed(pump, 200, 40)
	require.True(t, out.OK)
	require.True(t, out.HasNpsh)

	// NPSH 按转速比平方缩放，降速后必然低于参考点采样值
	assert.Greater(t, out.Npsh, 0.0)
	assert.Less(t, out.Npsh, 6.0)
}
