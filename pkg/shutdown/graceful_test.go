package shutdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/skillgraph/pkg/logging"
)

type stubServer struct {
	calls int
	err   error
}

func (s *stubServer) Shutdown(context.Context) error {
	s.calls++
	return s.err
}

func TestStopRunsClosersInOrder(t *testing.T) {
	srv := &stubServer{err: errors.New("busy")}
	var order []string

	Stop(context.Background(), srv, logging.NewNop(),
		func(context.Context) error { order = append(order, "first"); return errors.New("ignored") },
		nil,
		func(context.Context) error { order = append(order, "second"); return nil },
	)

	assert.Equal(t, 1, srv.calls)
	assert.Equal(t, []string{"first", "second"}, order)
}
