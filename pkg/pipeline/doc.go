// Package pipeline runs one scrape, diff, download and notify pass.
package pipeline
