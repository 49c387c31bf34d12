package gnuplotexec

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/cuserror"
	"github.com/sgostarter/plotfeed/render"
)

const gnuplotBinary = "gnuplot"

// New spawns the plotting backend and exposes its stdin as the
// protocol sink. A backend that cannot be started is a startup error,
// reported to the caller before any data is buffered.
func New(persist bool, logger l.Wrapper) (render.Backend, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	var args []string

	if persist {
		args = append(args, "--persist")
	}

	cmd := exec.Command(gnuplotBinary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	if err = cmd.Start(); err != nil {
		logger.WithFields(l.ErrorField(err)).Error("start backend")

		return nil, cuserror.NewWithErrorMsg("cannot start " + gnuplotBinary + ": " + err.Error())
	}

	return &backendImpl{
		logger: logger.WithFields(l.StringField(l.ClsKey, "backendImpl")),
		cmd:    cmd,
		stdin:  stdin,
		w:      bufio.NewWriter(stdin),
	}, nil
}

type backendImpl struct {
	logger l.Wrapper

	cmd   *exec.Cmd
	stdin io.WriteCloser
	w     *bufio.Writer
}

func (impl *backendImpl) Write(p []byte) (int, error) {
	return impl.w.Write(p)
}

// Version asks a fresh backend process for its version string, e.g.
// "5.4". Failures degrade to an empty version: optional protocol
// features stay off.
func (impl *backendImpl) Version() (string, error) {
	out, err := exec.Command(gnuplotBinary, "--version").Output()
	if err != nil {
		return "", err
	}

	// "gnuplot 5.4 patchlevel 2"
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return "", cuserror.NewWithErrorMsg("unexpected version output: " + string(out))
	}

	return fields[1], nil
}

func (impl *backendImpl) Flush() error {
	return impl.w.Flush()
}

func (impl *backendImpl) Close() error {
	if err := impl.w.Flush(); err != nil {
		return err
	}

	if err := impl.stdin.Close(); err != nil {
		return err
	}

	return impl.cmd.Wait()
}
