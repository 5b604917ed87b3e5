package main

import (
	"runtime"

	app "create-thread/internal/app"
)

// Pin main to the process's initial thread so its reported TID is stable
// and the worker always lands on a different one.
func init() {
	runtime.LockOSThread()
}

func main() {
	app.Run()
}
