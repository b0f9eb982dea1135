package transport

import (
	"io"
	"net"
	"os/exec"
	"sync"

	"codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/logger"
)

// pipe is the single process-wide writer to the sender's stdin. The
// mutex covers the whole record write: the host scheduler may invoke
// callbacks concurrently, and interleaved partial records would
// corrupt the line protocol.
type pipe struct {
	mu     sync.Mutex
	w      io.WriteCloser
	wait   func() error
	closed bool
}

// NewPipe wraps an existing writer as a Channel. Used by tests and by
// callers that manage the sender process themselves.
func NewPipe(w io.WriteCloser) Channel {
	return &pipe{w: w}
}

// SenderConfig describes the collector sender subprocess
type SenderConfig struct {
	Command string
	Server  string
}

func (c SenderConfig) Validate() error {
	errFactory := errors.New()

	if c.Command == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "sender command is empty")
	}
	if _, _, err := net.SplitHostPort(c.Server); err != nil {
		return errFactory.Wrap(ErrInvalidServer, err)
	}

	return nil
}

// NewSender starts the collector sender reading records from stdin and
// returns the channel feeding it. The process is started once for the
// life of the bridge; there is no reconnect on failure — a broken pipe
// is fatal for the pipeline and surfaces from Send.
func NewSender(cfg SenderConfig) (Channel, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	host, port, err := net.SplitHostPort(cfg.Server)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidServer, err)
	}

	cmd := exec.Command(cfg.Command,
		"--zabbix-server", host,
		"--port", port,
		"--real-time",
		"--input-file", "-",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errFactory.Wrap(ErrSpawnFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errFactory.Wrap(ErrSpawnFailed, err)
	}

	logger.Debug().
		Str("command", cfg.Command).
		Str("server", cfg.Server).
		Int("pid", cmd.Process.Pid).
		Msg("Collector sender started")

	return &pipe{
		w:    stdin,
		wait: cmd.Wait,
	}, nil
}

func (p *pipe) Send(record []byte) error {
	errFactory := errors.New()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errFactory.New(ErrClosed)
	}

	if _, err := p.w.Write(record); err != nil {
		return errFactory.Wrap(ErrSendFailed, err)
	}

	return nil
}

func (p *pipe) Close() error {
	errFactory := errors.New()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.w.Close(); err != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, err)
	}

	if p.wait != nil {
		if err := p.wait(); err != nil {
			return errFactory.Wrap(errors.ErrShutdownFailed, err)
		}
	}

	return nil
}
