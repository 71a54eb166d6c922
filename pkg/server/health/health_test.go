package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	err error
}

func (f *fakeDB) Ping(ctx context.Context) error {
	return f.err
}

func TestCheck(t *testing.T) {
	db := &fakeDB{}
	c := NewChecker(db)

	res, err := c.Check(context.Background(), &grpchealth.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpchealth.StatusServing, res.Status)

	db.err = errors.New("connection refused")
	res, err = c.Check(context.Background(), &grpchealth.CheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpchealth.StatusNotServing, res.Status)

	_, err = c.Check(context.Background(), &grpchealth.CheckRequest{Service: "other"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	require.NoError(t, Register(mux, NewChecker(&fakeDB{})))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		srv.URL+"/grpc.health.v1.Health/Check", strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
