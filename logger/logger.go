// Package logger 基于 log/slog 的结构化日志，按组件打标签
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// 组件名
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentExpense   = "expense"
	ComponentDashboard = "dashboard"
	ComponentAuth      = "auth"
	ComponentStorage   = "storage"
	ComponentMail      = "mail"
	ComponentExport    = "export"
)

// 常用字段名
const (
	FieldComponent = "component"
	FieldUser      = "user"
	FieldError     = "error"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldClientIP  = "client_ip"
	FieldKind      = "kind"
	FieldCount     = "count"
	FieldMonth     = "month"
)

// Logger slog.Logger 包装，附带组件名
// base 不含组件字段，切换组件时不会重复输出 component
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

func newLogger(base *slog.Logger, component string) *Logger {
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// Config 日志配置
type Config struct {
	Level     string // debug / info / warn / error
	Format    string // text / json
	Component string
	Output    io.Writer
}

// New 创建日志实例
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	return newLogger(slog.New(handler), component)
}

// Discard 丢弃所有输出，测试用
func Discard() *Logger {
	return newLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), ComponentApp)
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With 返回附加字段后的新实例
func (l *Logger) With(args ...any) *Logger {
	return newLogger(l.base.With(args...), l.component)
}

// WithComponent 返回指定组件名的新实例
func (l *Logger) WithComponent(component string) *Logger {
	return newLogger(l.base, component)
}

// Component 组件名
func (l *Logger) Component() string {
	return l.component
}

// SetDefault 设为 slog 默认日志
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

type ctxKey struct{}

// IntoContext 将日志实例放入 context
func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 从 context 取日志实例，没有则返回默认
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return newLogger(slog.Default(), ComponentApp)
}
