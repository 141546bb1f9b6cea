package engine

import (
	"errors"
	"sync"

	"github.com/muxboard/muxboard/internal/mux"
)

var errTest = errors.New("boom")

// fakeClient implements mux.Client with per-method hooks. Unset hooks
// succeed with zero values.
type fakeClient struct {
	mu sync.Mutex

	listWindowsFn     func() ([]mux.Window, error)
	createSessionFn   func(mux.CreateSessionRequest) (mux.CreateSessionResult, error)
	closeSessionFn    func(id string, force bool) error
	closeTabFn        func(id string, force bool) error
	activateSessionFn func(id string) error
	sessionByIDFn     func(id string) (*mux.Session, error)

	createCalls   int
	closeCalls    []closeCall
	closeTabCalls []closeCall
	closed        int
}

type closeCall struct {
	id    string
	force bool
}

func (f *fakeClient) ListWindows() ([]mux.Window, error) {
	if f.listWindowsFn != nil {
		return f.listWindowsFn()
	}
	return nil, nil
}

func (f *fakeClient) CreateSession(req mux.CreateSessionRequest) (mux.CreateSessionResult, error) {
	f.mu.Lock()
	f.createCalls++
	f.mu.Unlock()
	if f.createSessionFn != nil {
		return f.createSessionFn(req)
	}
	return mux.CreateSessionResult{}, nil
}

func (f *fakeClient) CloseSession(id string, force bool) error {
	f.mu.Lock()
	f.closeCalls = append(f.closeCalls, closeCall{id: id, force: force})
	f.mu.Unlock()
	if f.closeSessionFn != nil {
		return f.closeSessionFn(id, force)
	}
	return nil
}

func (f *fakeClient) CloseTab(id string, force bool) error {
	f.mu.Lock()
	f.closeTabCalls = append(f.closeTabCalls, closeCall{id: id, force: force})
	f.mu.Unlock()
	if f.closeTabFn != nil {
		return f.closeTabFn(id, force)
	}
	return nil
}

func (f *fakeClient) ActivateSession(id string) error {
	if f.activateSessionFn != nil {
		return f.activateSessionFn(id)
	}
	return nil
}

func (f *fakeClient) SessionByID(id string) (*mux.Session, error) {
	if f.sessionByIDFn != nil {
		return f.sessionByIDFn(id)
	}
	return nil, mux.ErrSessionNotFound
}

func (f *fakeClient) SessionVariable(id, name string) (string, error) {
	return "", nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

// fixedDial always hands out the same fake client.
func fixedDial(client mux.Client) DialFunc {
	return func() (mux.Client, error) {
		return client, nil
	}
}

// connectedConn returns a Conn already connected to the fake.
func connectedConn(client mux.Client) *Conn {
	conn := NewConn("", fixedDial(client))
	if err := conn.Connect(); err != nil {
		panic(err)
	}
	return conn
}
