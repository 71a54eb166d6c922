package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"connectrpc.com/otelconnect"

	"github.com/mpapenbr/fantasyf1-service-go/log"
)

// ServiceName is reported as serving as long as the database is reachable
const ServiceName = "ff1.v1.FantasyService"

type (
	pinger interface {
		Ping(ctx context.Context) error
	}
	dbChecker struct {
		db      pinger
		timeout time.Duration
		l       *log.Logger
	}
)

func NewChecker(db pinger) grpchealth.Checker {
	return &dbChecker{
		db:      db,
		timeout: 2 * time.Second,
		l:       log.Default().Named("health"),
	}
}

// Check answers for the overall server (empty service name) and ServiceName
//
//nolint:whitespace // editor/linter issue
func (c *dbChecker) Check(
	ctx context.Context,
	req *grpchealth.CheckRequest,
) (*grpchealth.CheckResponse, error) {
	if req.Service != "" && req.Service != ServiceName {
		return nil, connect.NewError(connect.CodeNotFound, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.db.Ping(ctx); err != nil {
		c.l.Warn("database not reachable", log.ErrorField(err))
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// Register adds the grpc health service to mux
func Register(mux *http.ServeMux, checker grpchealth.Checker) error {
	otelInterceptor, err := otelconnect.NewInterceptor()
	if err != nil {
		return err
	}
	path, handler := grpchealth.NewHandler(checker,
		connect.WithInterceptors(otelInterceptor))
	mux.Handle(path, handler)
	return nil
}
