package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpselect/model"
)

func TestCanDeliver(t *testing.T) {
	e := newTestEngine()

	t.Run("能力范围内通过", func(t *testing.T) {
		ok, rejections := e.CanDeliver(newTestPump(), 200, 45)
		assert.True(t, ok)
		assert.Empty(t, rejections)
	})

	t.Run("扬程不足逐条给出原因", func(t *testing.T) {
		ok, rejections := e.CanDeliver(newTestPump(), 200, 70)
		assert.False(t, ok)
		require.Len(t, rejections, 1)
		assert.Equal(t, ReasonHeadShortfall, rejections[0].Reason)
		assert.Equal(t, 300.0, rejections[0].Diameter)
		assert.NotEmpty(t, rejections[0].Detail)
	})

	t.Run("流量超范围", func(t *testing.T) {
		ok, rejections := e.CanDeliver(newTestPump(), 500, 30)
		assert.False(t, ok)
		require.Len(t, rejections, 1)
		assert.Equal(t, ReasonFlowOutOfRange, rejections[0].Reason)
	})

	t.Run("无曲线数据", func(t *testing.T) {
		ok, rejections := e.CanDeliver(&model.Pump{Code: "EMPTY"}, 200, 45)
		assert.False(t, ok)
		require.Len(t, rejections, 1)
		assert.Equal(t, ReasonNoCurves, rejections[0].Reason)
		assert.True(t, rejections[0].Reason.IsDataIssue())
	})

	t.Run("任一直径满足即通过", func(t *testing.T) {
		pump := newTestPump()
		pump.Curves = append(pump.Curves, model.PumpCurve{
			Diameter: 270,
			Points: []model.CurvePoint{
				{Flow: 100, Head: 47, Efficiency: 58},
				{Flow: 200, Head: 40, Efficiency: 76},
				{Flow: 300, Head: 29, Efficiency: 60},
			},
		})
		ok, _ := e.CanDeliver(pump, 200, 39)
		assert.True(t, ok)
	})
}
