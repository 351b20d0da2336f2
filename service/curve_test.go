package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpselect/model"
)

func TestInterpolateAtFlow(t *testing.T) {
	points := testPoints()

	t.Run("恰好落在采样点", func(t *testing.T) {
		ip, ok := interpolateAtFlow(points, 200, 0.10)
		require.True(t, ok)
		assert.InDelta(t, 50.0, ip.Head, 1e-9)
		assert.InDelta(t, 80.0, ip.Efficiency, 1e-9)
		assert.True(t, ip.HasNpsh)
		assert.InDelta(t, 3.5, ip.Npsh, 1e-9)
	})

	t.Run("线段中点线性插值", func(t *testing.T) {
		ip, ok := interpolateAtFlow(points, 175, 0.10)
		require.True(t, ok)
		assert.InDelta(t, 52.0, ip.Head, 1e-9)
		assert.InDelta(t, 76.0, ip.Efficiency, 1e-9)
	})

	t.Run("容差带外拒绝", func(t *testing.T) {
		_, ok := interpolateAtFlow(points, 89, 0.10) // 下界 100×0.9=90
		assert.False(t, ok)
		_, ok = interpolateAtFlow(points, 331, 0.10) // 上界 300×1.1=330
		assert.False(t, ok)
		_, ok = interpolateAtFlow(points, -5, 0.10)
		assert.False(t, ok)
	})

	t.Run("带内端部外推", func(t *testing.T) {
		// 95 在 [90, 330] 带内但低于最小采样点，用首段斜率外推
		ip, ok := interpolateAtFlow(points, 95, 0.10)
		require.True(t, ok)
		assert.InDelta(t, 58.4, ip.Head, 1e-9)
	})

	t.Run("缺失量不补零", func(t *testing.T) {
		ip, ok := interpolateAtFlow(points, 200, 0.10)
		require.True(t, ok)
		assert.False(t, ip.HasPower) // 样本没给功率
	})

	t.Run("点数不足", func(t *testing.T) {
		_, ok := interpolateAtFlow(points[:1], 100, 0.10)
		assert.False(t, ok)
	})
}

func TestValidPointsFilters(t *testing.T) {
	points := []model.CurvePoint{
		{Flow: 0, Head: 50, Efficiency: 60},
		{Flow: 100, Head: -1, Efficiency: 60},
		{Flow: 100, Head: 58, Efficiency: 60},
		{Flow: 200, Head: 50, Efficiency: 80},
	}
	assert.Len(t, validPoints(points), 2)
}

func TestReferenceCurve(t *testing.T) {
	pump := newTestPump()
	// 更大直径但只有 1 个有效点的曲线不可用，不能被选为参考
	pump.Curves = append(pump.Curves, model.PumpCurve{
		Diameter: 320,
		Points:   []model.CurvePoint{{Flow: 100, Head: 60, Efficiency: 60}},
	})
	// 小直径的可用曲线
	pump.Curves = append(pump.Curves, model.PumpCurve{
		Diameter: 270,
		Points: []model.CurvePoint{
			{Flow: 100, Head: 47, Efficiency: 58},
			{Flow: 200, Head: 40, Efficiency: 76},
		},
	})

	curve := referenceCurve(pump)
	require.NotNil(t, curve)
	assert.Equal(t, 300.0, curve.Diameter)

	assert.Nil(t, referenceCurve(&model.Pump{}))
}

func TestHydraulicPowerKw(t *testing.T) {
	// ρgQH/η：1000×9.80665×(200/3600)×50/0.8/1000 ≈ 34.05 kW
	assert.InDelta(t, 34.05, hydraulicPowerKw(200, 50, 80, 1000), 0.01)
	assert.Zero(t, hydraulicPowerKw(0, 50, 80, 1000))
	assert.Zero(t, hydraulicPowerKw(200, 50, 0, 1000))
}
