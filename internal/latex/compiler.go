package latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// Compiler turns composed LaTeX source into PDF bytes. It is an explicit
// capability so tests can substitute a fake instead of a real TeX
// toolchain. The returned log is the toolchain's combined stdout/stderr.
type Compiler interface {
	Compile(ctx context.Context, source string) (pdf []byte, log string, err error)
}

// PDFLaTeXConfig configures the subprocess-based compiler
type PDFLaTeXConfig struct {
	// Command is the toolchain binary, pdflatex by default
	Command string
	// WorkRoot is where per-call working directories are created;
	// os.TempDir when empty
	WorkRoot string
	// Timeout is the hard wall-clock budget for one compilation
	Timeout time.Duration
}

// PDFLaTeX compiles LaTeX by invoking the external toolchain in a fresh,
// isolated working directory per call. Safe for concurrent use; calls
// share no state.
type PDFLaTeX struct {
	cfg PDFLaTeXConfig
}

// NewPDFLaTeX creates a subprocess-based compiler
func NewPDFLaTeX(cfg PDFLaTeXConfig) *PDFLaTeX {
	if cfg.Command == "" {
		cfg.Command = "pdflatex"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &PDFLaTeX{cfg: cfg}
}

// Compile writes source into a throwaway directory, runs the toolchain
// against it and reads back document.pdf. The working directory is removed
// on every exit path. A timeout or caller cancellation kills the whole
// subprocess tree; a compilation failure carries the toolchain log
// verbatim. Failures are never retried here: the same source fails the
// same way, so retry policy belongs to the caller.
func (p *PDFLaTeX) Compile(ctx context.Context, source string) ([]byte, string, error) {
	workDir, err := os.MkdirTemp(p.cfg.WorkRoot, "latex-build-*")
	if err != nil {
		return nil, "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	texFile := filepath.Join(workDir, "document.tex")
	if err := os.WriteFile(texFile, []byte(source), 0600); err != nil {
		return nil, "", fmt.Errorf("write tex file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.cfg.Command,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-no-shell-escape",
		"-output-directory", workDir,
		texFile,
	)
	cmd.Dir = workDir
	cmd.Env = compileEnv(workDir)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	// Own process group, so a kill reaches children the toolchain spawns
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	runErr := cmd.Run()
	log := out.String()

	if runErr != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, log, &Error{
				Kind:  KindCompilationTimeout,
				Msg:   fmt.Sprintf("%s exceeded %s", p.cfg.Command, p.cfg.Timeout),
				Log:   log,
				Cause: ctx.Err(),
			}
		case ctx.Err() != nil:
			// Caller abandoned the request; not a toolchain fault
			return nil, log, ctx.Err()
		default:
			return nil, log, &Error{
				Kind:  KindCompilationFailed,
				Msg:   fmt.Sprintf("%s exited with an error", p.cfg.Command),
				Log:   log,
				Cause: runErr,
			}
		}
	}

	// Exit code zero is necessary but not sufficient: the artifact must
	// actually exist.
	pdf, err := os.ReadFile(filepath.Join(workDir, "document.pdf"))
	if err != nil {
		return nil, log, &Error{
			Kind:  KindCompilationFailed,
			Msg:   "toolchain exited cleanly but produced no document.pdf",
			Log:   log,
			Cause: err,
		}
	}
	if len(pdf) == 0 {
		return nil, log, &Error{
			Kind: KindCompilationFailed,
			Msg:  "toolchain produced an empty document.pdf",
			Log:  log,
		}
	}
	return pdf, log, nil
}

// compileEnv builds a minimal environment for the toolchain: TeX caches
// stay inside the working directory and proxy settings are not inherited.
func compileEnv(workDir string) []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + workDir,
		"TEXMFVAR=" + filepath.Join(workDir, "texmf-var"),
		"NO_PROXY=*",
	}
	for _, key := range []string{"LANG", "LC_ALL", "LC_CTYPE"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}
