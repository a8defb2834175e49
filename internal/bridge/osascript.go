package bridge

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OsascriptRunner executes JXA source through the osascript binary.
type OsascriptRunner struct {
	path   string
	logger *logrus.Logger
}

// NewOsascriptRunner creates a runner. path is the osascript binary,
// usually just "osascript".
func NewOsascriptRunner(path string, logger *logrus.Logger) *OsascriptRunner {
	return &OsascriptRunner{path: path, logger: logger}
}

// Phrases osascript emits when the mail application cannot be reached.
var unavailableMarkers = []string{
	"application isn't running",
	"application is not running",
	"can't be found",
	"connection is invalid",
	"timed out",
	"(-600)",
	"(-609)",
	"(-1712)",
}

// Run executes one script and returns its stdout. Each invocation gets a
// correlation id so slow or failing calls can be traced in the logs.
func (r *OsascriptRunner) Run(ctx context.Context, script string) (string, error) {
	callID := uuid.NewString()[:8]
	start := time.Now()

	cmd := exec.CommandContext(ctx, r.path, "-l", "JavaScript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)

	log := r.logger.WithFields(logrus.Fields{
		"call_id":  callID,
		"duration": elapsed.String(),
	})

	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		log.WithField("error", detail).Debug("Bridge call failed")
		if isUnavailable(detail) {
			return "", fmt.Errorf("%w: %s", ErrUnavailable, detail)
		}
		return "", fmt.Errorf("bridge: script failed: %s", detail)
	}

	log.Debug("Bridge call completed")
	return stdout.String(), nil
}

func isUnavailable(detail string) bool {
	lower := strings.ToLower(detail)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
