// Package ui prints human-facing status lines for the wallgrab CLI.
package ui
