package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.SugaredLogger

func InitLogger(name string) {
	writer := &lumberjack.Logger{
		Filename:   fmt.Sprintf("./log/%s.log", name),
		MaxSize:    100, // MB
		MaxBackups: 7,
		MaxAge:     30, // 天
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(writer), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zap.DebugLevel),
	)

	Logger = zap.New(core, zap.AddCaller()).Sugar()
}
