// Package logger は zap のグローバルロガーを構築します。
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は環境に応じたロガーを生成し、zap.L() に登録します。
// production では JSON、それ以外はカラー付きのコンソール出力になります。
func New(production bool) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(t.Format("15:04:05.000"))
		}
		cfg.DisableStacktrace = true
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
