package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init builds the global logger. Development environments get console output,
// everything else JSON.
func Init(environment string) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}

	zap.ReplaceGlobals(l)
	log = l.Sugar()
}

func get() *zap.SugaredLogger {
	if log == nil {
		Init("development")
	}
	return log
}

func Info(msg string, args ...interface{}) {
	get().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...interface{}) {
	get().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...interface{}) {
	get().Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...interface{}) {
	get().Fatalw(msg, normalize(args)...)
}

// normalize tolerates both key/value pairs and bare values (errors, strings)
// at call sites.
func normalize(args []interface{}) []interface{} {
	if len(args)%2 == 0 {
		for i := 0; i < len(args); i += 2 {
			if _, ok := args[i].(string); !ok {
				return wrapAll(args)
			}
		}
		return args
	}
	return wrapAll(args)
}

func wrapAll(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)*2)
	for i, a := range args {
		key := "detail"
		if err, ok := a.(error); ok {
			out = append(out, "error", err)
			continue
		}
		if i > 0 {
			key = fmt.Sprintf("detail_%d", i)
		}
		out = append(out, key, a)
	}
	return out
}
