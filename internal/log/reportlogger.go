package log

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gkospad/gkospad/chord"
)

const hexMarker = "hex: "

// ReportLogger writes one line per report: timestamp, decoded chord, length
// and a hex dump. The dump can be fed back through the replay source.
type ReportLogger struct {
	w   io.Writer
	now func() time.Time
	mu  sync.Mutex
}

// NewReportLogger returns a logger writing to w. A nil w discards reports.
func NewReportLogger(w io.Writer) *ReportLogger {
	return &ReportLogger{w: w, now: time.Now}
}

func (r *ReportLogger) LogReport(report []byte, code chord.Code) {
	if r == nil || r.w == nil || len(report) == 0 {
		return
	}
	var line bytes.Buffer
	line.Grow(64 + 3*len(report))
	fmt.Fprintf(&line, "%s chord=0x%02X len=%d %s", r.now().Format("2006/01/02 15:04:05.000"), uint8(code), len(report), hexMarker)

	const hexdigits = "0123456789abcdef"
	for i, b := range report {
		if i > 0 {
			line.WriteByte(' ')
		}
		line.WriteByte(hexdigits[b>>4])
		line.WriteByte(hexdigits[b&0x0f])
	}
	line.WriteByte('\n')

	r.mu.Lock()
	_, _ = r.w.Write(line.Bytes())
	r.mu.Unlock()
}

// ErrNoReport marks lines that carry no report, such as blank lines and
// comments.
var ErrNoReport = errors.New("no report on line")

// ParseReportLine extracts the report from a line written by ReportLogger.
// Lines holding only hex bytes are accepted as well; '#' starts a comment.
func ParseReportLine(line string) ([]byte, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, hexMarker); i >= 0 {
		line = line[i+len(hexMarker):]
	}
	digits := strings.Join(strings.Fields(line), "")
	if digits == "" {
		return nil, ErrNoReport
	}
	report, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
