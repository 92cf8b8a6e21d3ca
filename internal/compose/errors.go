package compose

import "errors"

var (
	// ErrRenderTargetMissing means the off-screen surface (or its root
	// element) was not there at capture time. Retrying without remounting
	// will not help.
	ErrRenderTargetMissing = errors.New("render target missing")
	// ErrCaptureFailed means rasterization itself failed.
	ErrCaptureFailed = errors.New("capture failed")
)

// CaptureError carries the underlying rasterization failure.
type CaptureError struct {
	Cause error
}

func (e *CaptureError) Error() string {
	if e.Cause == nil {
		return ErrCaptureFailed.Error()
	}
	return ErrCaptureFailed.Error() + ": " + e.Cause.Error()
}

func (e *CaptureError) Unwrap() error { return e.Cause }

func (e *CaptureError) Is(target error) bool { return target == ErrCaptureFailed }

// Retryable reports whether another attempt may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrCaptureFailed) && !errors.Is(err, ErrRenderTargetMissing)
}
