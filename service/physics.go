package service

import (
	"math"
	"strings"
)

// PumpClass 泵型分类。封闭枚举，每个分类携带一组相似定律指数，
// 未识别的型号统一落到 ClassDefault，绝不报错
type PumpClass int

const (
	ClassDefault PumpClass = iota
	ClassEndSuction
	ClassHorizontalSplitCase
	ClassVerticalTurbine
	ClassAxialFlow
	ClassMixedFlow
	ClassMultistage
	ClassSubmersible
)

// ExponentSet 相似定律指数：流量、扬程、功率、汽蚀余量
type ExponentSet struct {
	Flow  float64
	Head  float64
	Power float64
	Npsh  float64
	Label string
}

var classExponents = map[PumpClass]ExponentSet{
	// 经典相似定律，未识别泵型的兜底
	ClassDefault:             {Flow: 1.0, Head: 2.0, Power: 3.0, Npsh: 2.0, Label: "通用离心泵"},
	ClassEndSuction:          {Flow: 1.0, Head: 2.0, Power: 3.0, Npsh: 2.0, Label: "端吸泵"},
	ClassHorizontalSplitCase: {Flow: 1.05, Head: 2.1, Power: 3.1, Npsh: 2.0, Label: "中开泵"},
	ClassVerticalTurbine:     {Flow: 1.1, Head: 2.2, Power: 3.3, Npsh: 2.1, Label: "立式长轴泵"},
	ClassAxialFlow:           {Flow: 1.3, Head: 2.6, Power: 3.9, Npsh: 2.4, Label: "轴流泵"},
	ClassMixedFlow:           {Flow: 1.15, Head: 2.3, Power: 3.5, Npsh: 2.2, Label: "混流泵"},
	ClassMultistage:          {Flow: 1.0, Head: 2.05, Power: 3.05, Npsh: 2.0, Label: "多级泵"},
	ClassSubmersible:         {Flow: 1.0, Head: 2.0, Power: 3.0, Npsh: 2.0, Label: "潜水泵"},
}

// 型号标签到分类的同义词表，键为归一化后的标签
var typeSynonyms = map[string]PumpClass{
	"END_SUCTION":           ClassEndSuction,
	"END SUCTION":           ClassEndSuction,
	"ES":                    ClassEndSuction,
	"OH1":                   ClassEndSuction,
	"OH2":                   ClassEndSuction,
	"HORIZONTAL_SPLIT_CASE": ClassHorizontalSplitCase,
	"HORIZONTAL SPLIT CASE": ClassHorizontalSplitCase,
	"SPLIT_CASE":            ClassHorizontalSplitCase,
	"SPLIT CASE":            ClassHorizontalSplitCase,
	"HSC":                   ClassHorizontalSplitCase,
	"BB1":                   ClassHorizontalSplitCase,
	"VERTICAL_TURBINE":      ClassVerticalTurbine,
	"VERTICAL TURBINE":      ClassVerticalTurbine,
	"VT":                    ClassVerticalTurbine,
	"VS1":                   ClassVerticalTurbine,
	"AXIAL_FLOW":            ClassAxialFlow,
	"AXIAL FLOW":            ClassAxialFlow,
	"AXIAL":                 ClassAxialFlow,
	"PROPELLER":             ClassAxialFlow,
	"MIXED_FLOW":            ClassMixedFlow,
	"MIXED FLOW":            ClassMixedFlow,
	"MIXED":                 ClassMixedFlow,
	"MULTISTAGE":            ClassMultistage,
	"MULTI_STAGE":           ClassMultistage,
	"MULTI STAGE":           ClassMultistage,
	"RING_SECTION":          ClassMultistage,
	"SUBMERSIBLE":           ClassSubmersible,
	"SUB":                   ClassSubmersible,
}

// ClassifyPumpType 归一化型号标签并查表，未识别返回 ClassDefault。
// 纯函数，不会因未映射的输入报错
func ClassifyPumpType(label string) PumpClass {
	key := strings.ToUpper(strings.TrimSpace(label))
	if key == "" {
		return ClassDefault
	}
	if class, ok := typeSynonyms[key]; ok {
		return class
	}
	// 宽松匹配：标签里带关键词也认
	switch {
	case strings.Contains(key, "TURBINE"):
		return ClassVerticalTurbine
	case strings.Contains(key, "AXIAL"):
		return ClassAxialFlow
	case strings.Contains(key, "MIXED"):
		return ClassMixedFlow
	case strings.Contains(key, "SPLIT"):
		return ClassHorizontalSplitCase
	case strings.Contains(key, "STAGE"):
		return ClassMultistage
	case strings.Contains(key, "SUBMERSIBLE"):
		return ClassSubmersible
	}
	return ClassDefault
}

// Exponents 返回该分类的指数组
func (c PumpClass) Exponents() ExponentSet {
	if e, ok := classExponents[c]; ok {
		return e
	}
	return classExponents[ClassDefault]
}

// IsDiffuserType 导叶式结构（立式长轴、多级）切削后效率损失更大
func (c PumpClass) IsDiffuserType() bool {
	return c == ClassVerticalTurbine || c == ClassMultistage
}

// HydraulicType 按比转速划分水力类型
type HydraulicType string

const (
	HydraulicRadial HydraulicType = "radial" // 径流（离心）
	HydraulicMixed  HydraulicType = "mixed"  // 混流
	HydraulicAxial  HydraulicType = "axial"  // 轴流
)

// SpecificSpeed 计算比转速 nq = n·√Q / H^0.75，Q 取 m³/s
func SpecificSpeed(speedRpm, flowM3h, headM float64) float64 {
	if speedRpm <= 0 || flowM3h <= 0 || headM <= 0 {
		return math.NaN()
	}
	qs := flowM3h / 3600.0
	return speedRpm * math.Sqrt(qs) / math.Pow(headM, 0.75)
}

// ClassifyHydraulicType 按比转速划分径流/混流/轴流
func ClassifyHydraulicType(nq float64) HydraulicType {
	switch {
	case math.IsNaN(nq):
		return HydraulicRadial
	case nq <= 40:
		return HydraulicRadial
	case nq <= 140:
		return HydraulicMixed
	default:
		return HydraulicAxial
	}
}
