package identity

import "os"

func SetGetpidFn(fn func() int) (restore func()) {
	prev := getpidFn
	if fn != nil {
		getpidFn = fn
	} else {
		getpidFn = os.Getpid
	}
	return func() { getpidFn = prev }
}

func SetGetppidFn(fn func(int) int) (restore func()) {
	prev := getppidFn
	if fn != nil {
		getppidFn = fn
	} else {
		getppidFn = parentPID
	}
	return func() { getppidFn = prev }
}

func SetGettidFn(fn func() int) (restore func()) {
	prev := gettidFn
	if fn != nil {
		gettidFn = fn
	} else {
		gettidFn = gettid
	}
	return func() { gettidFn = prev }
}
