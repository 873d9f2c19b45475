package main

import (
	"github.com/logrusorgru/aurora/v4"
)

func colorizeError(enabled bool, message string) string {
	if !enabled {
		return message
	}
	return aurora.Colorize(message, aurora.RedFg|aurora.BrightFg|aurora.BoldFm).String()
}

func colorizeInfo(enabled bool, message string) string {
	if !enabled {
		return message
	}
	return aurora.Colorize(message, aurora.YellowFg|aurora.BrightFg).String()
}
