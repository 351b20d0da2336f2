package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"pumpselect/model"
	"pumpselect/pkg/logger"
)

const batchSize = 400

// 样本工作簿约定的两个工作表
const (
	sheetPumps  = "pumps"
	sheetCurves = "curves"
)

var ErrPumpNotFound = errors.New("泵型号不存在")

// Service 选型服务：样本库读写 + 计算引擎入口
type Service struct {
	db     *gorm.DB
	engine *Engine
}

func NewService(db *gorm.DB, engine *Engine) *Service {
	return &Service{db: db, engine: engine}
}

// Engine 暴露计算引擎（脚本与测试用）
func (s *Service) Engine() *Engine {
	return s.engine
}

// GetPumpByCode 按型号代码取泵，曲线按直径降序、点位按流量升序预排好
func (s *Service) GetPumpByCode(code string) (*model.Pump, error) {
	var pump model.Pump
	err := s.preloadCurves(s.db).Where("code = ?", code).First(&pump).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPumpNotFound
	}
	if err != nil {
		logger.Logger.Errorf("查询泵 %s 失败: %v", code, err)
		return nil, err
	}
	return &pump, nil
}

// GetAllPumps 全量泵列表，排序约定同上
func (s *Service) GetAllPumps() ([]*model.Pump, error) {
	var pumps []*model.Pump
	if err := s.preloadCurves(s.db).Order("code").Find(&pumps).Error; err != nil {
		logger.Logger.Errorf("查询泵列表失败: %v", err)
		return nil, err
	}
	return pumps, nil
}

func (s *Service) preloadCurves(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Curves", func(db *gorm.DB) *gorm.DB {
			return db.Order("diameter DESC")
		}).
		Preload("Curves.Points", func(db *gorm.DB) *gorm.DB {
			return db.Order("flow ASC")
		})
}

// EvaluatePump 单泵评估
func (s *Service) EvaluatePump(pump *model.Pump, flow, head float64) *EvaluationResult {
	return s.engine.Evaluate(pump, flow, head)
}

// FindBestPumps 批量选型排序
func (s *Service) FindBestPumps(flow, head float64, c SelectionConstraints) ([]*EvaluationResult, error) {
	pumps, err := s.GetAllPumps()
	if err != nil {
		return nil, err
	}
	return s.engine.Rank(pumps, flow, head, c), nil
}

// ProximitySearch BEP 邻近度检索
func (s *Service) ProximitySearch(flow, head float64, limit int) ([]ProximityMatch, error) {
	pumps, err := s.GetAllPumps()
	if err != nil {
		return nil, err
	}
	return s.engine.RankByProximity(pumps, flow, head, limit), nil
}

// PerformanceAtFlow 诊断用性能估算
func (s *Service) PerformanceAtFlow(code string, flow float64, allowExcessiveTrim bool) (*PerformanceEstimate, error) {
	pump, err := s.GetPumpByCode(code)
	if err != nil {
		return nil, err
	}
	est, ok := s.engine.PerformanceAtFlow(pump, flow, allowExcessiveTrim)
	if !ok {
		return nil, fmt.Errorf("泵 %s 在流量 %.1f 处无法估算性能", code, flow)
	}
	return est, nil
}

// ImportCatalog 从样本工作簿导入泵与曲线。pumps 表一行一台泵，
// curves 表一行一个采样点（泵代码+直径定位曲线）。格式错误的行
// 记录警告后跳过，不中断整个导入；cover 为 true 时覆盖同代码旧档
func (s *Service) ImportCatalog(file io.Reader, cover bool) (*ImportCatalogResult, error) {
	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		logger.Logger.Errorf("open excel file error: %v", err)
		return nil, err
	}

	result := &ImportCatalogResult{}

	pumps, skipped, err := parsePumpRows(xlsx)
	if err != nil {
		return nil, err
	}
	result.SkippedRows += skipped

	curvesByCode, pointCount, skipped, err := parseCurveRows(xlsx)
	if err != nil {
		return nil, err
	}
	result.SkippedRows += skipped

	// 组装聚合：泵挂曲线、曲线挂点位（点位升序），gorm 级联写入
	for i := range pumps {
		byDiameter := curvesByCode[pumps[i].Code]
		diameters := make([]float64, 0, len(byDiameter))
		for d := range byDiameter {
			diameters = append(diameters, d)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(diameters)))

		for _, d := range diameters {
			points := byDiameter[d]
			sort.Slice(points, func(a, b int) bool {
				return points[a].Flow < points[b].Flow
			})
			pumps[i].Curves = append(pumps[i].Curves, model.PumpCurve{
				Diameter: d,
				Points:   points,
			})
			result.ImportedCurves++
		}
	}
	result.ImportedPoints = pointCount

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if cover {
		codes := make([]string, 0, len(pumps))
		for i := range pumps {
			codes = append(codes, pumps[i].Code)
		}
		if err = s.deleteByCodes(tx, codes); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	for start := 0; start < len(pumps); start += batchSize {
		end := start + batchSize
		if end > len(pumps) {
			end = len(pumps)
		}
		chunk := pumps[start:end]
		if err = tx.Create(&chunk).Error; err != nil {
			tx.Rollback()
			return result, fmt.Errorf("插入第 %d 批次时出错: %v", start/batchSize+1, err)
		}
		result.ImportedPumps += len(chunk)
	}

	if err = tx.Commit().Error; err != nil {
		return result, fmt.Errorf("事务提交失败: %v", err)
	}

	logger.Logger.Infof("样本导入完成: %d 台泵 %d 条曲线 %d 个点位，跳过 %d 行",
		result.ImportedPumps, result.ImportedCurves, result.ImportedPoints, result.SkippedRows)
	return result, nil
}

// deleteByCodes 连同曲线和点位删除指定代码的泵档，覆盖导入用
func (s *Service) deleteByCodes(tx *gorm.DB, codes []string) error {
	var pumpIDs []int64
	if err := tx.Model(&model.Pump{}).Where("code IN ?", codes).Pluck("id", &pumpIDs).Error; err != nil {
		return err
	}
	if len(pumpIDs) == 0 {
		return nil
	}

	var curveIDs []int64
	if err := tx.Model(&model.PumpCurve{}).Where("pump_id IN ?", pumpIDs).Pluck("id", &curveIDs).Error; err != nil {
		return err
	}
	if len(curveIDs) > 0 {
		if err := tx.Where("curve_id IN ?", curveIDs).Delete(&model.CurvePoint{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("pump_id IN ?", pumpIDs).Delete(&model.PumpCurve{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", pumpIDs).Delete(&model.Pump{}).Error
}

// parsePumpRows 解析 pumps 表。列顺序：
// code, name, pump_type, variable_speed, variable_diameter,
// bep_flow, bep_head, bep_efficiency,
// min_diameter, max_diameter, min_speed, max_speed, test_speed
func parsePumpRows(xlsx *excelize.File) ([]model.Pump, int, error) {
	rows, err := xlsx.GetRows(sheetPumps)
	if err != nil {
		return nil, 0, fmt.Errorf("读取 %s 工作表失败: %v", sheetPumps, err)
	}
	if len(rows) < 2 {
		return nil, 0, errors.New("pumps 工作表内容为空")
	}

	var (
		pumps   []model.Pump
		skipped int
	)
	for rowNum, row := range rows[1:] {
		if len(row) < 13 {
			logger.Logger.Warnf("pumps 第 %d 行列数不足（%d/13），跳过", rowNum+2, len(row))
			skipped++
			continue
		}

		p := model.Pump{
			Code:             strings.TrimSpace(row[0]),
			Name:             strings.TrimSpace(row[1]),
			PumpType:         strings.TrimSpace(row[2]),
			VariableSpeed:    parseBoolCell(row[3]),
			VariableDiameter: parseBoolCell(row[4]),
		}
		if p.Code == "" {
			logger.Logger.Warnf("pumps 第 %d 行缺少泵代码，跳过", rowNum+2)
			skipped++
			continue
		}

		dst := []*float64{
			&p.BepFlow, &p.BepHead, &p.BepEfficiency,
			&p.MinDiameter, &p.MaxDiameter,
			&p.MinSpeed, &p.MaxSpeed, &p.TestSpeed,
		}
		valid := true
		for i, field := range dst {
			cell := strings.TrimSpace(row[5+i])
			if cell == "" {
				continue // 可空数值列保持零值
			}
			num, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				logger.Logger.Warnf("pumps 第 %d 行第 %d 列转换失败: %v", rowNum+2, 6+i, err)
				valid = false
				break
			}
			*field = num
		}
		if !valid {
			skipped++
			continue
		}

		pumps = append(pumps, p)
	}
	return pumps, skipped, nil
}

// parseCurveRows 解析 curves 表。列顺序：
// pump_code, diameter, flow, head, efficiency, power, npsh
// power/npsh 可空，空值存 NULL 而不是 0
func parseCurveRows(xlsx *excelize.File) (map[string]map[float64][]model.CurvePoint, int, int, error) {
	rows, err := xlsx.GetRows(sheetCurves)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("读取 %s 工作表失败: %v", sheetCurves, err)
	}
	if len(rows) < 2 {
		return nil, 0, 0, errors.New("curves 工作表内容为空")
	}

	out := make(map[string]map[float64][]model.CurvePoint)
	var (
		points  int
		skipped int
	)
	for rowNum, row := range rows[1:] {
		if len(row) < 5 {
			logger.Logger.Warnf("curves 第 %d 行列数不足（%d/5），跳过", rowNum+2, len(row))
			skipped++
			continue
		}

		code := strings.TrimSpace(row[0])
		diameter, err1 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		flow, err2 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		head, err3 := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		eff, err4 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if code == "" || err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			logger.Logger.Warnf("curves 第 %d 行数据格式错误，已跳过", rowNum+2)
			skipped++
			continue
		}

		point := model.CurvePoint{
			Flow:       flow,
			Head:       head,
			Efficiency: eff,
		}
		if len(row) > 5 {
			point.Power = parseOptionalCell(row[5])
		}
		if len(row) > 6 {
			point.Npsh = parseOptionalCell(row[6])
		}

		if out[code] == nil {
			out[code] = make(map[float64][]model.CurvePoint)
		}
		out[code][diameter] = append(out[code][diameter], point)
		points++
	}
	return out, points, skipped, nil
}

func parseBoolCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "true", "y", "yes", "是":
		return true
	default:
		return false
	}
}

func parseOptionalCell(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if num, err := strconv.ParseFloat(cell, 64); err == nil {
		return &num
	}
	return nil
}
