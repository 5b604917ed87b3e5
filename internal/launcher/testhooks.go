package launcher

import "time"

func SetStartThreadFn(fn func(func()) error) (restore func()) {
	prev := startThreadFn
	if fn != nil {
		startThreadFn = fn
	} else {
		startThreadFn = startThread
	}
	return func() { startThreadFn = prev }
}

func SetSleepFn(fn func(time.Duration)) (restore func()) {
	prev := sleepFn
	if fn != nil {
		sleepFn = fn
	} else {
		sleepFn = time.Sleep
	}
	return func() { sleepFn = prev }
}
