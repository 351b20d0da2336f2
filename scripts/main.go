package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"pumpselect/model"
	"pumpselect/pkg/logger"
	"pumpselect/service"
)

var db *gorm.DB

// 批量导入工具：把目录下所有泵样本工作簿灌进库，建库初始化用
func main() {
	host := flag.String("h", "", "mysql地址")
	port := flag.String("p", "", "mysql端口")
	user := flag.String("u", "", "mysql账号")
	password := flag.String("a", "", "mysql密码")
	fileDir := flag.String("d", "", "样本excel文件所在的目录")
	cover := flag.Bool("c", false, "覆盖已存在的同代码泵档")
	flag.Parse()

	if *host == "" || *port == "" || *password == "" || *fileDir == "" {
		flag.Usage()
		return
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/pumpselect?charset=utf8mb4&parseTime=True&loc=Local", *user, *password, *host, *port)

	var err error
	db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Silent,
				Colorful:      false,
			},
		),
	})
	if err != nil {
		fmt.Printf("连接mysql失败: %v\n", err)
		return
	}
	if err = db.AutoMigrate(&model.Pump{}, &model.PumpCurve{}, &model.CurvePoint{}); err != nil {
		fmt.Printf("建表失败: %v\n", err)
		return
	}

	logger.InitLogger("pumpselect-import")
	svc := service.NewService(db, service.NewEngine(service.DefaultCalibration()))

	files, err := os.ReadDir(*fileDir)
	if err != nil {
		fmt.Printf("读取目录失败: %v\n", err)
		return
	}

	var totalPumps, totalPoints int
	for _, file := range files {
		now := time.Now()
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".xlsx") {
			continue
		}

		filePath := filepath.Join(*fileDir, file.Name())
		f, err := os.Open(filePath)
		if err != nil {
			fmt.Printf("打开文件 %s 失败: %v\n", filePath, err)
			continue
		}

		result, err := svc.ImportCatalog(f, *cover)
		f.Close()
		if err != nil {
			fmt.Printf("导入文件 %s 失败: %v\n", filePath, err)
			continue
		}
		fmt.Printf("成功导入文件 %s，%d 台泵 %d 个点位，跳过 %d 行，耗时 %.2fs\n",
			filePath, result.ImportedPumps, result.ImportedPoints, result.SkippedRows, time.Since(now).Seconds())
		totalPumps += result.ImportedPumps
		totalPoints += result.ImportedPoints
	}

	fmt.Printf("\n总计导入 %d 台泵 %d 个曲线点位\n", totalPumps, totalPoints)
}
