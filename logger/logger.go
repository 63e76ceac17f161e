// Package logger provides adapters for popular logger libraries to work with tracecap's Logger interface.
//
// The adapters allow you to use your existing logger with tracecap without writing boilerplate.
// Note that the standard library's slog.Logger already implements tracecap.Logger directly.
//
// Example with zap:
//
//	import (
//	    "tracecap"
//	    "tracecap/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    tracer, err := tracecap.New(host, tracecap.WithLogger(logger.NewZap(zapLogger)))
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = tracer
//	}
package logger
