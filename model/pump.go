package model

// Pump 泵型号主档。铭牌参数与能力标志在导入时确定，评估过程中只读
type Pump struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code             string `gorm:"column:code;uniqueIndex;size:64" json:"code"`
	Name             string `gorm:"column:name;size:128" json:"name"`
	PumpType         string `gorm:"column:pump_type;size:64" json:"pumpType"`
	VariableSpeed    bool   `gorm:"column:variable_speed" json:"variableSpeed"`
	VariableDiameter bool   `gorm:"column:variable_diameter" json:"variableDiameter"`

	// 铭牌最优工况点（BEP）
	BepFlow       float64 `gorm:"column:bep_flow" json:"bepFlow"`             // m³/h
	BepHead       float64 `gorm:"column:bep_head" json:"bepHead"`             // m
	BepEfficiency float64 `gorm:"column:bep_efficiency" json:"bepEfficiency"` // %

	// 叶轮与转速范围
	MinDiameter float64 `gorm:"column:min_diameter" json:"minDiameter"` // mm
	MaxDiameter float64 `gorm:"column:max_diameter" json:"maxDiameter"` // mm
	MinSpeed    float64 `gorm:"column:min_speed" json:"minSpeed"`       // rpm
	MaxSpeed    float64 `gorm:"column:max_speed" json:"maxSpeed"`       // rpm
	TestSpeed   float64 `gorm:"column:test_speed" json:"testSpeed"`     // rpm，铭牌试验转速

	Curves []PumpCurve `gorm:"foreignKey:PumpID" json:"curves"`
}

func (Pump) TableName() string {
	return "pump"
}

// PumpCurve 一条叶轮直径对应的性能曲线，点位按流量升序存储
type PumpCurve struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	PumpID   int64   `gorm:"column:pump_id;index" json:"pumpId"`
	Diameter float64 `gorm:"column:diameter" json:"diameter"` // mm

	Points []CurvePoint `gorm:"foreignKey:CurveID" json:"points"`
}

func (PumpCurve) TableName() string {
	return "pump_curve"
}

// CurvePoint 曲线采样点。Power/Npsh 可能缺失，缺失时存 NULL 而不是 0
type CurvePoint struct {
	ID         int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CurveID    int64    `gorm:"column:curve_id;index" json:"curveId"`
	Flow       float64  `gorm:"column:flow" json:"flow"`             // m³/h
	Head       float64  `gorm:"column:head" json:"head"`             // m
	Efficiency float64  `gorm:"column:efficiency" json:"efficiency"` // %
	Power      *float64 `gorm:"column:power" json:"power,omitempty"` // kW
	Npsh       *float64 `gorm:"column:npsh" json:"npsh,omitempty"`   // m
}

func (CurvePoint) TableName() string {
	return "curve_point"
}
