package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpselect/model"
)

func TestResolveModality(t *testing.T) {
	cases := []struct {
		vs, vd bool
		want   Modality
	}{
		{true, true, ModalityFlexible},
		{false, true, ModalityTrimOnly},
		{true, false, ModalityVfdOnly},
		{false, false, ModalityFixed},
	}
	for _, c := range cases {
		pump := &model.Pump{VariableSpeed: c.vs, VariableDiameter: c.vd}
		assert.Equal(t, c.want, resolveModality(pump))
	}
}

func TestEvaluateExactBep(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.VariableSpeed = false
	pump.VariableDiameter = false

	// 工况正好落在铭牌 BEP 上：BEP 接近度满分 45，效率 80 得 31.5，
	// 扬程零裕量得 20，无任何扣分
	res := e.Evaluate(pump, 200, 50)
	require.True(t, res.Feasible)
	assert.Equal(t, ModalityFixed, res.Modality)
	assert.Equal(t, 45.0, res.Scores["bepProximity"])
	assert.InDelta(t, 31.5, res.Scores["efficiency"], 1e-9)
	assert.Equal(t, 20.0, res.Scores["headMargin"])
	assert.InDelta(t, 96.5, res.TotalScore, 1e-9)
	assert.Equal(t, TierPreferred, res.Tier)
	assert.Equal(t, 100.0, res.TrimPercent)
}

func TestEvaluateInfeasibleHead(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	res := e.Evaluate(pump, 200, 70)
	assert.False(t, res.Feasible)
	assert.Equal(t, ReasonHeadShortfall.String(), res.Reason)
	assert.Zero(t, res.TotalScore)
	assert.Empty(t, res.Tier)
}

func TestEvaluateVfdOnlyHardExclusion(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.VariableDiameter = false
	pump.MinSpeed = 1400

	// 切削本可满足该工况，但 VFD_ONLY 路径下转速越界就是不可行，
	// 绝不退回切削
	res := e.Evaluate(pump, 200, 40)
	assert.Equal(t, ModalityVfdOnly, res.Modality)
	assert.False(t, res.Feasible)
	assert.Equal(t, ReasonSpeedOutOfRange.String(), res.Reason)
}

func TestEvaluateFlexiblePicksHigherEfficiency(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	res := e.Evaluate(pump, 200, 40.5)
	require.True(t, res.Feasible)
	assert.Equal(t, ModalityFlexible, res.Modality)

	trim := e.OptimizeTrim(pump, 200, 40.5)
	vfd := e.SolveSpeed(pump, 200, 40.5)
	require.True(t, trim.OK)
	require.True(t, vfd.OK)
	if trim.Efficiency >= vfd.Efficiency {
		assert.InDelta(t, trim.Efficiency, res.Efficiency, 1e-9)
		assert.Less(t, res.TrimPercent, 100.0)
	} else {
		assert.InDelta(t, vfd.Efficiency, res.Efficiency, 1e-9)
		assert.Greater(t, res.Speed, 0.0)
	}
}

func TestEvaluateFlexibleFallsBackWhenVfdOutOfRange(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.MinSpeed = 1400 // 变频路径越界

	res := e.Evaluate(pump, 200, 40)
	require.True(t, res.Feasible)
	assert.Equal(t, ModalityFlexible, res.Modality)
	assert.Less(t, res.TrimPercent, 100.0) // 走了切削路径
	assert.Zero(t, res.Speed)
}

func TestEvaluateIdempotent(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	first := e.Evaluate(pump, 200, 40.5)
	second := e.Evaluate(pump, 200, 40.5)
	assert.Equal(t, first, second)
}

func TestScoreOversizing(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()
	pump.BepHead = 100 // 铭牌 BEP 扬程是需求的 2 倍

	res := &EvaluationResult{
		PumpCode:       pump.Code,
		Flow:           200,
		Head:           50,
		Efficiency:     80,
		TrimPercent:    100,
		TrueQbpPercent: 100,
	}
	e.scoreResult(res, pump)
	assert.Equal(t, -30.0, res.Scores["bepOversizing"])
}

func TestScorePhysicalLimitation(t *testing.T) {
	e := newTestEngine()
	pump := newTestPump()

	// 容差内欠扬程：扣 50 分压到最低档，但保留可见
	res := e.Evaluate(pump, 200, 50.5)
	require.True(t, res.Feasible)
	assert.Equal(t, -50.0, res.Scores["physicalLimitation"])
	assert.Equal(t, TierMarginal, res.Tier)
}

func TestRank(t *testing.T) {
	e := newTestEngine()

	feasible := newTestPump()

	lowHead := newTestPump()
	lowHead.Code = "TP-LOW"
	lowHead.Curves = []model.PumpCurve{{
		Diameter: 300,
		Points: []model.CurvePoint{
			{Flow: 100, Head: 22, Efficiency: 60},
			{Flow: 200, Head: 18, Efficiency: 75},
			{Flow: 300, Head: 12, Efficiency: 58},
		},
	}}

	noCurves := &model.Pump{Code: "TP-EMPTY", VariableDiameter: true}

	results := e.Rank([]*model.Pump{noCurves, lowHead, feasible}, 200, 45, SelectionConstraints{})
	require.Len(t, results, 3)

	// 可行解在前，不可行的带原因排在后面而不是被丢弃
	assert.Equal(t, "TP-200", results[0].PumpCode)
	assert.True(t, results[0].Feasible)
	assert.False(t, results[1].Feasible)
	assert.False(t, results[2].Feasible)
	for _, r := range results[1:] {
		assert.NotEmpty(t, r.Reason)
	}
}

func TestRankConstraints(t *testing.T) {
	e := newTestEngine()

	a := newTestPump()
	b := newTestPump()
	b.Code = "TP-VT"
	b.PumpType = "VERTICAL TURBINE"

	t.Run("泵型过滤", func(t *testing.T) {
		results := e.Rank([]*model.Pump{a, b}, 200, 45, SelectionConstraints{PumpType: "VT"})
		require.Len(t, results, 1)
		assert.Equal(t, "TP-VT", results[0].PumpCode)
	})

	t.Run("路径过滤", func(t *testing.T) {
		c := newTestPump()
		c.Code = "TP-FIXED"
		c.VariableSpeed = false
		c.VariableDiameter = false
		results := e.Rank([]*model.Pump{a, c}, 200, 45, SelectionConstraints{Modality: ModalityFixed})
		require.Len(t, results, 1)
		assert.Equal(t, "TP-FIXED", results[0].PumpCode)
	})

	t.Run("条数上限", func(t *testing.T) {
		results := e.Rank([]*model.Pump{a, b}, 200, 45, SelectionConstraints{Limit: 1})
		assert.Len(t, results, 1)
	})
}

func TestRankIsolatesBadPump(t *testing.T) {
	e := newTestEngine()

	// 脏数据泵不能拖垮整批评估
	dirty := &model.Pump{
		Code:             "TP-DIRTY",
		VariableDiameter: true,
		Curves: []model.PumpCurve{{
			Diameter: 300,
			Points:   []model.CurvePoint{{Flow: -1, Head: 0, Efficiency: 0}},
		}},
	}
	results := e.Rank([]*model.Pump{dirty, newTestPump()}, 200, 45, SelectionConstraints{})
	require.Len(t, results, 2)
	assert.True(t, results[0].Feasible)
	assert.Equal(t, "TP-200", results[0].PumpCode)
}
