package neuromorphic

import (
	"io"

	kitlog "github.com/go-kit/kit/log"
)

// NewLogger returns a logfmt logger writing to w, with every entry tagged with its timestamp and the provided name.
func NewLogger(w io.Writer, name string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC, "app", name)
}
