// Package logger provides the structured logging interface used across wallgrab.
//
// It wraps zerolog with a small interface so components can accept a Logger,
// derive children with fields, and be tested against TestLogger:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "downloader")
//	log.InfoWithFields("Download completed", map[string]interface{}{"name": name})
//
// Console output goes to stderr; when a file is configured, lines are written
// to both the console and the file.
package logger
