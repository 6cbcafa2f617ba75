package utils

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bracketLevelEncoder renders levels as "[INFO]", "[WARN]" and "[ERROR]".
func bracketLevelEncoder(level zapcore.Level, encoder zapcore.PrimitiveArrayEncoder) {
	encoder.AppendString("[" + level.CapitalString() + "]")
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeLevel = bracketLevelEncoder
	config.TimeKey = ""
	config.NameKey = ""
	config.CallerKey = ""
	config.StacktraceKey = ""
	config.MessageKey = "message"
	config.ConsoleSeparator = " "
	return config
}

// NewApplicationLogger constructs a zap logger configured for human-readable console output on stderr.
func NewApplicationLogger() *zap.Logger {
	return NewWriterLogger(zapcore.Lock(os.Stderr))
}

// NewWriterLogger constructs a logger with the console format that writes Info and above to writer.
func NewWriterLogger(writer io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.AddSync(writer),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}
