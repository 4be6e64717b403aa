// Package log provides a wrapped zap logger for the other packages in this
// module to use.
//
// The queue packages report conditions that are deliberately swallowed
// rather than returned (unrecognized error numbers, temp file cleanup
// failures, consumer receive errors) through the global logger defined
// here. Programs that want those reports should call InitLogger early in
// main; otherwise the logger is a nop.
package log
