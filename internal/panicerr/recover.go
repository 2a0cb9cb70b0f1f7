package panicerr

// Recover runs f in a new goroutine, wrapped in defer logic that turns any
// abnormal exit (a panic, or a runtime.Goexit) into a non-nil error return
// instead of taking down the whole process.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}
