// Package logs reads the spmaal log file for the "spmaal logs" command.
//
// Last returns the final lines and the byte offset after them; Follow then
// streams lines appended past that offset until the context is cancelled.
package logs
