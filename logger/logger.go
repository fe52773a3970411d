package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log       *zap.SugaredLogger = zap.NewNop().Sugar()
	ZapLogger *zap.Logger        = zap.NewNop() // Expose the raw zap Logger
)

// InitLogger builds the process-wide logger writing to stdout at the given level.
// An unknown level falls back to info.
func InitLogger(level string) {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        "",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: "  ",
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		lvl,
	)

	ZapLogger = zap.New(core)
	Log = ZapLogger.Sugar()
	if err != nil {
		Log.Warnw("Unknown LOG_LEVEL, using info", zap.String("level", level))
	}
}

func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync() // flushes buffer, if any
	}
}
