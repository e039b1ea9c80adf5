package logger

import "time"

// LogRequest logs HTTP request information
func LogRequest(log Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 500:
		log.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		log.WarnWithFields("HTTP request client error", fields)
	default:
		log.DebugWithFields("HTTP request completed", fields)
	}
}

// LogDownload logs the outcome of a single image download
func LogDownload(log Logger, name, url string, success bool, err error) {
	l := log.WithFields(map[string]interface{}{
		"name":    name,
		"url":     url,
		"success": success,
	})

	if err != nil {
		l.WithError(err).Error("Download failed")
	} else if success {
		l.Info("Download completed")
	} else {
		l.Warn("Download skipped")
	}
}

// LogScrapeResult logs how many posts a listing produced and how many survived filtering
func LogScrapeResult(log Logger, url string, posts, candidates int) {
	log.InfoWithFields("Listing scraped", map[string]interface{}{
		"url":        url,
		"posts":      posts,
		"candidates": candidates,
		"filtered":   posts - candidates,
	})
}
