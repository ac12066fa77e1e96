package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   = zap.NewNop()
	Sugar = Log.Sugar()
)

// Init configures the global logger. The CLI wants human-readable output on
// stderr; the sync server wants JSON on stdout.
func Init(json bool) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	var writer zapcore.WriteSyncer
	if json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		writer = zapcore.AddSync(os.Stdout)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		writer = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, writer, zapcore.InfoLevel)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}
