package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"pumpselect/handler"
	"pumpselect/model"
	"pumpselect/pkg/conf"
	"pumpselect/pkg/logger"
	"pumpselect/service"
)

var db *gorm.DB

func main() {
	conf.InitConf("./pumpselect.yaml")
	logger.InitLogger("pumpselect")

	var err error
	dsn := conf.Conf.GetString("mysql.dsn")
	db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormLogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormLogger.Info,
			Colorful:      true,
		}),
	})
	if err != nil {
		logger.Logger.Errorf("failed to connect database: %v", err)
		return
	}

	// 读多写少，配置了只读副本就把查询分流过去
	if replica := conf.Conf.GetString("mysql.replica_dsn"); replica != "" {
		if err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{mysql.Open(replica)},
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			logger.Logger.Errorf("注册只读副本失败: %v", err)
			return
		}
	}

	if err = db.AutoMigrate(&model.Pump{}, &model.PumpCurve{}, &model.CurvePoint{}); err != nil {
		logger.Logger.Errorf("建表失败: %v", err)
		return
	}

	calib, err := service.LoadCalibration()
	if err != nil {
		logger.Logger.Errorf("加载标定参数失败: %v", err)
		return
	}

	svc := service.NewService(db, service.NewEngine(calib))
	r := SetupRouter(svc)
	_ = r.Run(conf.Conf.GetString("server.addr"))
}

func SetupRouter(svc *service.Service) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{conf.Conf.GetString("frontend.host")}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	h := handler.NewHandler(svc)
	api := r.Group("/v1")
	{
		api.POST("/catalog/import", h.ImportCatalog)
		api.GET("/pump/list", h.GetPumpList)
		api.GET("/pump/:code", h.GetPump)
		api.GET("/pump/:code/performance", h.GetPerformance)
		api.POST("/selection/evaluate", h.Evaluate)
		api.POST("/selection/best", h.SelectBest)
		api.GET("/selection/proximity", h.ProximitySearch)
	}

	return r
}
