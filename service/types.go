package service

// FailureReason 无解/排除原因。数据缺陷与物理不可行必须可区分，
// 不允许折叠成一个布尔值
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonNoCurves
	ReasonHeadShortfall
	ReasonTrimBeyondLimit
	ReasonFlowOutOfRange
	ReasonBadInterpolation
	ReasonSpeedOutOfRange
	ReasonMissingSpeedRange
	ReasonMissingBep
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNoCurves:
		return "无有效性能曲线"
	case ReasonHeadShortfall:
		return "全直径下扬程能力不足"
	case ReasonTrimBeyondLimit:
		return "所需切削量超出允许范围"
	case ReasonFlowOutOfRange:
		return "目标流量超出曲线容差范围"
	case ReasonBadInterpolation:
		return "曲线插值结果无效"
	case ReasonSpeedOutOfRange:
		return "所需转速超出运行范围"
	case ReasonMissingSpeedRange:
		return "缺少转速范围数据"
	case ReasonMissingBep:
		return "缺少铭牌最优工况点"
	default:
		return "未知原因"
	}
}

// IsDataIssue 数据缺陷类原因（区别于物理不可行）
func (r FailureReason) IsDataIssue() bool {
	return r == ReasonNoCurves || r == ReasonMissingSpeedRange || r == ReasonMissingBep
}

// Modality 评估路径
type Modality string

const (
	ModalityFlexible Modality = "FLEXIBLE"  // 可变速且可切削
	ModalityTrimOnly Modality = "TRIM_ONLY" // 仅可切削
	ModalityVfdOnly  Modality = "VFD_ONLY"  // 仅可变速
	ModalityFixed    Modality = "FIXED"     // 定速定径
)

// Tier 推荐档位。不合适的泵只降档，不排除
type Tier string

const (
	TierPreferred  Tier = "preferred"
	TierAllowable  Tier = "allowable"
	TierAcceptable Tier = "acceptable"
	TierMarginal   Tier = "marginal"
)

// TrimOutcome 切削求解结果
type TrimOutcome struct {
	OK     bool
	Reason FailureReason

	Ratio        float64 // 直径比 r
	TrimPercent  float64 // r×100
	Diameter     float64 // 切削后直径 mm
	BaseDiameter float64 // 参考（最大）直径 mm

	Head       float64 // 运行扬程 m
	Efficiency float64 // %
	Power      float64 // kW
	Npsh       float64 // m
	HasNpsh    bool

	ShiftedBepFlow float64
	ShiftedBepHead float64
	TrueQbpPercent float64

	Limited bool // 容差内欠扬程运行
}

// VfdOutcome 变频求解结果
type VfdOutcome struct {
	OK     bool
	Reason FailureReason

	Speed             float64 // rpm
	SpeedRatioPercent float64 // 占铭牌转速百分比
	Frequency         float64 // Hz

	Head       float64
	Efficiency float64
	Power      float64
	Npsh       float64
	HasNpsh    bool

	RefFlow float64 // 参考曲线匹配点
	RefHead float64
}

// EvaluationResult 单泵评估输出。每次调用新建，不跨工况复用
type EvaluationResult struct {
	PumpCode string   `json:"pumpCode"`
	PumpName string   `json:"pumpName"`
	Modality Modality `json:"modality"`

	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`

	Flow       float64 `json:"flow"`
	Head       float64 `json:"head"`
	Efficiency float64 `json:"efficiency"`
	Power      float64 `json:"power"`
	Npsh       float64 `json:"npsh,omitempty"`
	HasNpsh    bool    `json:"hasNpsh"`

	Diameter     float64 `json:"diameter,omitempty"`
	BaseDiameter float64 `json:"baseDiameter,omitempty"`
	TrimPercent  float64 `json:"trimPercent,omitempty"`

	Speed             float64 `json:"speed,omitempty"`
	SpeedRatioPercent float64 `json:"speedRatioPercent,omitempty"`
	Frequency         float64 `json:"frequency,omitempty"`

	ShiftedBepFlow float64 `json:"shiftedBepFlow,omitempty"`
	ShiftedBepHead float64 `json:"shiftedBepHead,omitempty"`
	TrueQbpPercent float64 `json:"trueQbpPercent,omitempty"`

	Scores     map[string]float64 `json:"scores,omitempty"`
	TotalScore float64            `json:"totalScore"`
	Tier       Tier               `json:"tier,omitempty"`

	limited bool // 容差内欠扬程运行，评分时计物理受限扣分
}

// PerformanceEstimate 诊断用性能估算（全直径，宽松容差）
type PerformanceEstimate struct {
	Flow        float64 `json:"flow"`
	Head        float64 `json:"head"`
	Efficiency  float64 `json:"efficiency"`
	Power       float64 `json:"power"`
	Npsh        float64 `json:"npsh,omitempty"`
	HasNpsh     bool    `json:"hasNpsh"`
	TrimPercent float64 `json:"trimPercent"`
	QbpPercent  float64 `json:"qbpPercent,omitempty"`
}

// ProximityMatch BEP 邻近度检索结果
type ProximityMatch struct {
	PumpCode      string               `json:"pumpCode"`
	PumpName      string               `json:"pumpName"`
	HydraulicType HydraulicType        `json:"hydraulicType"`
	SpecificSpeed float64              `json:"specificSpeed"`
	FlowRatio     float64              `json:"flowRatio"`
	HeadRatio     float64              `json:"headRatio"`
	Distance      float64              `json:"distance"`
	Estimate      *PerformanceEstimate `json:"estimate,omitempty"`
}

// SelectionConstraints 批量选型约束
type SelectionConstraints struct {
	PumpType string   `json:"pumpType,omitempty"` // 限定泵型标签
	Modality Modality `json:"modality,omitempty"` // 限定评估路径
	Limit    int      `json:"limit,omitempty"`    // 返回条数上限，0 不限
}

// CurveRejection 能力校验中单条曲线被否决的原因
type CurveRejection struct {
	Diameter float64       `json:"diameter"`
	Reason   FailureReason `json:"reason"`
	Detail   string        `json:"detail,omitempty"`
}

// ImportCatalogResult 样本导入结果
type ImportCatalogResult struct {
	ImportedPumps  int `json:"importedPumps"`
	ImportedCurves int `json:"importedCurves"`
	ImportedPoints int `json:"importedPoints"`
	SkippedRows    int `json:"skippedRows"`
}
