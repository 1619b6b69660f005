package gateway

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolagentd/internal/domain"
)

// fakeConn implements domain.GatewayConn for testing.
type fakeConn struct {
	tools     []domain.ToolDescriptor
	pingErr   error
	listErr   error
	listCalls atomic.Int32
	closed    atomic.Int32
}

func (c *fakeConn) Ping(context.Context) error {
	return c.pingErr
}

func (c *fakeConn) ListTools(context.Context) ([]domain.ToolDescriptor, error) {
	c.listCalls.Add(1)
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.tools, nil
}

func (c *fakeConn) CallTool(context.Context, string, map[string]any) (domain.ToolOutput, error) {
	return domain.ToolOutput{}, errors.New("not implemented")
}

func (c *fakeConn) Close() error {
	c.closed.Add(1)
	return nil
}

// fakeDialer implements domain.GatewayDialer for testing.
type fakeDialer struct {
	conn  *fakeConn
	err   error
	delay time.Duration
	dials atomic.Int32
}

func (d *fakeDialer) Dial(context.Context) (domain.GatewayConn, error) {
	d.dials.Add(1)
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

func remoteTool(name string) domain.ToolDescriptor {
	return domain.ToolDescriptor{Name: name, Origin: domain.OriginMCP}
}

func TestManager_EnsureConnectedSuccess(t *testing.T) {
	dialer := &fakeDialer{conn: &fakeConn{tools: []domain.ToolDescriptor{remoteTool("remote.echo")}}}
	manager := NewManager(dialer, ManagerOptions{GatewayURL: "http://gw:8080"})

	handle, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)
	require.NotNil(t, handle)
	assert.Equal(t, StateConnected, manager.State())
	assert.False(t, manager.LastRefresh().IsZero())

	tool, found := handle.Tool("remote.echo")
	require.True(t, found)
	assert.Equal(t, domain.OriginMCP, tool.Origin)
}

func TestManager_EnsureConnectedDialFailure(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("connection refused")}
	manager := NewManager(dialer, ManagerOptions{})

	handle, ok := manager.EnsureConnected(context.Background(), true)
	require.False(t, ok)
	require.Nil(t, handle)
	assert.Equal(t, StateFailed, manager.State())
	// the failed attempt still records a refresh timestamp
	assert.False(t, manager.LastRefresh().IsZero())
}

func TestManager_EnsureConnectedListFailureClosesConn(t *testing.T) {
	conn := &fakeConn{listErr: errors.New("tools/list failed")}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	_, ok := manager.EnsureConnected(context.Background(), true)
	require.False(t, ok)
	assert.Equal(t, int32(1), conn.closed.Load())
	assert.Equal(t, StateFailed, manager.State())
}

func TestManager_EnsureConnectedIfStaleReusesLiveConn(t *testing.T) {
	conn := &fakeConn{tools: []domain.ToolDescriptor{remoteTool("remote.echo")}}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	first, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)

	second, ok := manager.EnsureConnectedIfStale(context.Background())
	require.True(t, ok)
	assert.Same(t, first, second)
	// liveness reuse skips the descriptor refresh
	assert.Equal(t, int32(1), conn.listCalls.Load())
	assert.Equal(t, int32(1), dialer.dials.Load())
}

func TestManager_EnsureConnectedIfStaleReconnectsOnPingFailure(t *testing.T) {
	conn := &fakeConn{
		tools:   []domain.ToolDescriptor{remoteTool("remote.echo")},
		pingErr: errors.New("broken pipe"),
	}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	first, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)

	second, ok := manager.EnsureConnectedIfStale(context.Background())
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), dialer.dials.Load())
}

func TestManager_EnsureConnectedIfStaleDialsWhenUnconnected(t *testing.T) {
	dialer := &fakeDialer{conn: &fakeConn{}}
	manager := NewManager(dialer, ManagerOptions{})

	_, ok := manager.EnsureConnectedIfStale(context.Background())
	require.True(t, ok)
	assert.Equal(t, int32(1), dialer.dials.Load())
}

func TestManager_ConcurrentForceConnectDialsOnce(t *testing.T) {
	dialer := &fakeDialer{
		conn:  &fakeConn{tools: []domain.ToolDescriptor{remoteTool("remote.echo")}},
		delay: 20 * time.Millisecond,
	}
	manager := NewManager(dialer, ManagerOptions{})

	const callers = 8
	handles := make([]*Handle, callers)
	oks := make([]bool, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles[i], oks[i] = manager.EnsureConnected(context.Background(), true)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), dialer.dials.Load())
	for i := range callers {
		require.True(t, oks[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestManager_CloseIdempotent(t *testing.T) {
	conn := &fakeConn{}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	require.NoError(t, manager.Close())

	_, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Equal(t, int32(1), conn.closed.Load())
	assert.Equal(t, StateUnconnected, manager.State())
}

func TestManager_NonForceRefreshReusesConnection(t *testing.T) {
	conn := &fakeConn{}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	_, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)

	// non-force refresh re-pulls descriptors without redialing
	_, ok = manager.EnsureConnected(context.Background(), false)
	require.True(t, ok)
	assert.Equal(t, int32(1), dialer.dials.Load())
	assert.Equal(t, int32(2), conn.listCalls.Load())
}

func TestManager_SerialForceReconnectDialsAgain(t *testing.T) {
	conn := &fakeConn{}
	dialer := &fakeDialer{conn: conn}
	manager := NewManager(dialer, ManagerOptions{})

	_, ok := manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)

	_, ok = manager.EnsureConnected(context.Background(), true)
	require.True(t, ok)
	assert.Equal(t, int32(2), dialer.dials.Load())
	assert.Equal(t, int32(1), conn.closed.Load())
}
