package service

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"pumpselect/model"
	"pumpselect/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop().Sugar()
	os.Exit(m.Run())
}

func newTestEngine() *Engine {
	return NewEngine(DefaultCalibration())
}

func ptr(v float64) *float64 { return &v }

// 300mm 参考曲线采样点，BEP 在 (200, 50, 80%)
func testPoints() []model.CurvePoint {
	return []model.CurvePoint{
		{Flow: 100, Head: 58, Efficiency: 60, Npsh: ptr(2.5)},
		{Flow: 150, Head: 54, Efficiency: 72, Npsh: ptr(3.0)},
		{Flow: 200, Head: 50, Efficiency: 80, Npsh: ptr(3.5)},
		{Flow: 250, Head: 44, Efficiency: 75, Npsh: ptr(4.5)},
		{Flow: 300, Head: 36, Efficiency: 62, Npsh: ptr(6.0)},
	}
}

func newTestPump() *model.Pump {
	return &model.Pump{
		Code:             "TP-200",
		Name:             "测试端吸泵",
		PumpType:         "END SUCTION",
		VariableSpeed:    true,
		VariableDiameter: true,
		BepFlow:          200,
		BepHead:          50,
		BepEfficiency:    80,
		MinDiameter:      255,
		MaxDiameter:      300,
		MinSpeed:         900,
		MaxSpeed:         1600,
		TestSpeed:        1450,
		Curves: []model.PumpCurve{
			{Diameter: 300, Points: testPoints()},
		},
	}
}
