package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetPumps)
	_, err := f.NewSheet(sheetCurves)
	require.NoError(t, err)

	pumpRows := [][]any{
		{"code", "name", "pump_type", "variable_speed", "variable_diameter",
			"bep_flow", "bep_head", "bep_efficiency",
			"min_diameter", "max_diameter", "min_speed", "max_speed", "test_speed"},
		{"TP-200", "测试端吸泵", "END SUCTION", "1", "1",
			"200", "50", "80", "255", "300", "900", "1600", "1450"},
		{"TP-201", "测试中开泵", "HSC", "0", "是",
			"350", "40", "", "280", "320", "", "", "960"}, // 可空数值列
		{"", "缺代码", "ES", "0", "0",
			"1", "1", "1", "1", "1", "1", "1", "1"}, // 跳过
		{"TP-BAD", "坏数值", "ES", "0", "0",
			"abc", "50", "80", "255", "300", "900", "1600", "1450"}, // 跳过
	}
	for i, row := range pumpRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetPumps, cell, &row))
	}

	curveRows := [][]any{
		{"pump_code", "diameter", "flow", "head", "efficiency", "power", "npsh"},
		{"TP-200", "300", "200", "50", "80", "30.5", "3.5"},
		{"TP-200", "300", "100", "58", "60", "", ""}, // 可空列
		{"TP-200", "280", "150", "46", "70", "", "3.0"},
		{"TP-200", "bad", "150", "46", "70", "", ""}, // 跳过
	}
	for i, row := range curveRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetCurves, cell, &row))
	}
	return f
}

func TestParsePumpRows(t *testing.T) {
	pumps, skipped, err := parsePumpRows(newTestWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, pumps, 2)

	assert.Equal(t, "TP-200", pumps[0].Code)
	assert.True(t, pumps[0].VariableSpeed)
	assert.True(t, pumps[0].VariableDiameter)
	assert.Equal(t, 200.0, pumps[0].BepFlow)
	assert.Equal(t, 1450.0, pumps[0].TestSpeed)

	assert.Equal(t, "TP-201", pumps[1].Code)
	assert.False(t, pumps[1].VariableSpeed)
	assert.True(t, pumps[1].VariableDiameter) // "是" 也认
	assert.Zero(t, pumps[1].BepEfficiency)    // 空列保持零值
}

func TestParseCurveRows(t *testing.T) {
	curves, points, skipped, err := parseCurveRows(newTestWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, 3, points)
	assert.Equal(t, 1, skipped)

	byDiameter := curves["TP-200"]
	require.NotNil(t, byDiameter)
	assert.Len(t, byDiameter[300.0], 2)
	assert.Len(t, byDiameter[280.0], 1)

	// 可空列：空值为 nil 而不是 0
	var withPower, withoutPower int
	for _, p := range byDiameter[300.0] {
		if p.Power != nil {
			withPower++
			assert.Equal(t, 30.5, *p.Power)
		} else {
			withoutPower++
		}
	}
	assert.Equal(t, 1, withPower)
	assert.Equal(t, 1, withoutPower)
}

func TestParseCells(t *testing.T) {
	assert.True(t, parseBoolCell("1"))
	assert.True(t, parseBoolCell("TRUE"))
	assert.True(t, parseBoolCell("是"))
	assert.False(t, parseBoolCell("0"))
	assert.False(t, parseBoolCell(""))

	assert.Nil(t, parseOptionalCell(""))
	assert.Nil(t, parseOptionalCell("n/a"))
	require.NotNil(t, parseOptionalCell("3.5"))
	assert.Equal(t, 3.5, *parseOptionalCell("3.5"))
}
