// Package logger provides structured logging for meetingnotes using zerolog.
//
// It supports JSON and console output, level configuration, rotated file
// output through lumberjack, and component-scoped loggers with structured
// fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/meetingnotes/app.log"
//
// # Usage
//
//	log := logger.GetGlobalLogger().WithComponent("upload")
//	log.WithContext(ctx).Info("file saved", logger.Fields(logger.FieldFilename, name))
package logger
