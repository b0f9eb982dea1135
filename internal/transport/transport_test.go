package transport_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	apperrors "codeberg.org/mutker/miosbridge/internal/errors"
	"codeberg.org/mutker/miosbridge/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
	err    error
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	return b.buf.Write(p)
}

func (b *bufferCloser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *bufferCloser) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPipeSend(t *testing.T) {
	sink := &bufferCloser{}
	ch := transport.NewPipe(sink)

	require.NoError(t, ch.Send([]byte("Vera_5 mios.upnp[SwitchPower,Status] \"1\"\n")))
	require.NoError(t, ch.Send([]byte("Vera_5 mios.upnp[SwitchPower,Status] \"0\"\n")))

	assert.Equal(t,
		"Vera_5 mios.upnp[SwitchPower,Status] \"1\"\nVera_5 mios.upnp[SwitchPower,Status] \"0\"\n",
		sink.String())
}

func TestPipeSendAfterClose(t *testing.T) {
	sink := &bufferCloser{}
	ch := transport.NewPipe(sink)

	require.NoError(t, ch.Close())
	assert.True(t, sink.closed)

	err := ch.Send([]byte("record\n"))
	require.Error(t, err)
	assert.Equal(t, transport.ErrClosed, apperrors.CodeOf(err))

	// Closing twice is harmless
	require.NoError(t, ch.Close())
}

func TestPipeSendFailure(t *testing.T) {
	sink := &bufferCloser{err: errors.New("broken pipe")}
	ch := transport.NewPipe(sink)

	err := ch.Send([]byte("record\n"))
	require.Error(t, err)
	assert.Equal(t, transport.ErrSendFailed, apperrors.CodeOf(err))
}

func TestPipeConcurrentSends(t *testing.T) {
	sink := &bufferCloser{}
	ch := transport.NewPipe(sink)

	record := []byte("Vera_1 mios.upnp[SwitchPower,Status] \"1\"\n")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ch.Send(record))
		}()
	}
	wg.Wait()

	out := sink.String()
	assert.Len(t, out, 50*len(record), "records never interleave")
	for len(out) > 0 {
		assert.Equal(t, string(record), out[:len(record)])
		out = out[len(record):]
	}
}

func TestSenderConfigValidate(t *testing.T) {
	valid := transport.SenderConfig{Command: "zabbix_sender", Server: "127.0.0.1:10051"}
	require.NoError(t, valid.Validate())

	missing := transport.SenderConfig{Server: "127.0.0.1:10051"}
	require.Error(t, missing.Validate())

	badServer := transport.SenderConfig{Command: "zabbix_sender", Server: "127.0.0.1"}
	err := badServer.Validate()
	require.Error(t, err)
	assert.Equal(t, transport.ErrInvalidServer, apperrors.CodeOf(err))
}
