package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grailbio/base/log"
)

// runLog appends per-sample progress lines to the proband's log file under
// <outDir>/logs. Methods are nil-safe so a failed open degrades to the
// process log instead of aborting the sample.
type runLog struct {
	f *os.File
}

func openRunLog(outDir, proband string) *runLog {
	dir := filepath.Join(outDir, "logs")
	if err := os.MkdirAll(dir, 0777); err != nil {
		log.Error.Printf("creating %s: %v", dir, err)
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, proband+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Error.Printf("opening run log for %s: %v", proband, err)
		return nil
	}
	return &runLog{f: f}
}

func (l *runLog) Printf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.f, time.Now().Format("2006-01-02 15:04:05 ")+format+"\n", args...)
}

func (l *runLog) Close() {
	if l == nil {
		return
	}
	if err := l.f.Close(); err != nil {
		log.Error.Printf("closing run log: %v", err)
	}
}
