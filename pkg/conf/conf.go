package conf

import (
	"errors"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

// ErrMissingKey 表示必填配置项缺失，调用方可用 errors.Is 区分
var ErrMissingKey = errors.New("配置项缺失")

func InitConf(path string) {
	Conf = viper.New()
	Conf.SetConfigFile(path)
	if err := Conf.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件 %s 失败: %v", path, err)
	}

	Conf.WatchConfig()
	Conf.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("配置文件已更新: %s", e.Name)
	})
}

// Float 读取 section.key 的数值配置，缺失时返回 ErrMissingKey
// 算法内不允许默认值，所有标定系数必须在配置文件里显式给出
func Float(section, key string) (float64, error) {
	full := section + "." + key
	if !Conf.IsSet(full) {
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, full)
	}
	return Conf.GetFloat64(full), nil
}
