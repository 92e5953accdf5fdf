package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"google.golang.org/grpc"
)

// GoalServer serves GoalService for the CLI
type GoalServer struct {
	mediator mediator.Mediator
	logger   common.Logger
	listener net.Listener
	server   *grpc.Server
}

// NewGoalServer listens on address: host:port, or unix:///path for a Unix domain socket
func NewGoalServer(m mediator.Mediator, logger common.Logger, address string) (*GoalServer, error) {
	listener, err := listen(address)
	if err != nil {
		return nil, err
	}

	s := &GoalServer{
		mediator: m,
		logger:   logger,
		listener: listener,
	}
	s.server = grpc.NewServer(grpc.UnaryInterceptor(s.loggingInterceptor))
	RegisterGoalServiceServer(s.server, newGoalServiceImpl(m))

	return s, nil
}

func listen(address string) (net.Listener, error) {
	if socketPath, ok := strings.CutPrefix(address, "unix://"); ok {
		// Remove existing socket file if present
		if err := os.RemoveAll(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %w", err)
		}
		listener, err := net.Listen("unix", socketPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
		}
		// Owner only
		if err := os.Chmod(socketPath, 0600); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
		return listener, nil
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}

// Addr returns the listening address
func (s *GoalServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve handles requests until ctx is cancelled, then stops gracefully
func (s *GoalServer) Serve(ctx context.Context) error {
	s.logger.Log(common.LevelInfo, "Goal service listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
	})

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Log(common.LevelInfo, "Stopping goal service", nil)
		s.server.GracefulStop()
		return nil
	}
}

// loggingInterceptor puts the server logger into every request context
func (s *GoalServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx = common.WithLogger(ctx, s.logger)
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Log(common.LevelWarn, "Goal service request failed", map[string]interface{}{
			"method": info.FullMethod,
			"error":  err.Error(),
		})
	}
	return resp, err
}
