package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "app.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options 日志输出配置，Level 为空时 debug 模式取 debug，其余取 info
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// L 全局结构化日志实例，未 Init 前为 nil
var L *zap.Logger

var fallback = sync.OnceValue(func() *zap.Logger {
	return build(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(zap.InfoLevel))
})

type ctxKey struct{}

// Init 初始化全局日志
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New debug 模式输出彩色控制台日志；其余模式写 JSON 到滚动文件，文件不可用时退回 stdout
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := resolveLevel(options.Level, debug)
	if debug {
		encCfg := encoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return build(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level)
	}

	var sink zapcore.WriteSyncer
	path, err := resolveLogFilePath(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, writing to stdout\n", err)
		sink = zapcore.AddSync(os.Stdout)
	} else {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    positiveOr(options.MaxSizeMB, defaultLogMaxSizeMB),
			MaxBackups: positiveOr(options.MaxBackups, defaultLogMaxBackups),
			MaxAge:     positiveOr(options.MaxAgeDays, defaultLogMaxAgeDays),
			Compress:   options.Compress,
		})
	}
	return build(zapcore.NewJSONEncoder(encoderConfig()), sink, level)
}

func resolveLevel(raw string, debug bool) zap.AtomicLevel {
	if raw = strings.TrimSpace(raw); raw != "" {
		if level, err := zap.ParseAtomicLevel(raw); err == nil {
			return level
		}
	}
	if debug {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zap.NewAtomicLevelAt(zap.InfoLevel)
}

func build(enc zapcore.Encoder, ws zapcore.WriteSyncer, level zap.AtomicLevel) *zap.Logger {
	return zap.New(zapcore.NewCore(enc, ws, level), zap.AddCaller(), zap.AddCallerSkip(1))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// StdLogger 标准库 log 适配，供启动阶段 Fatalf 使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

// Z 全局实例，未初始化时退回控制台实例
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	return fallback()
}

// S 全局 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// WithContext 把请求级日志放进 context，服务层通过 FromContext 取回
func WithContext(ctx context.Context, log *zap.SugaredLogger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext 取请求级日志，缺省返回全局实例
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && log != nil {
			return log
		}
	}
	return S()
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }

// resolveLogFilePath 目录缺省为 ./logs，确保目录存在且文件可写
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	filename := strings.TrimSpace(options.Filename)
	if filename == "" {
		filename = defaultLogFilename
	}
	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
