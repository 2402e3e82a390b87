package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"termtris/pb"
	"termtris/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	return conn, nil
}

// publisher streams the snapshots of the local game to the spectator hub.
// After the first failed send it stops trying, the game goes on offline.
type publisher struct {
	session string
	conn    *grpc.ClientConn
	stream  grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty]
	logger  *slog.Logger
	failed  bool
}

func newPublisher(ctx context.Context, conn *grpc.ClientConn, session string, l *slog.Logger) (*publisher, error) {
	stream, err := pb.NewSpectatorClient(conn).Publish(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC Publish stream: %w", err)
	}
	return &publisher{
		session: session,
		conn:    conn,
		stream:  stream,
		logger:  l,
	}, nil
}

func (p *publisher) send(s *tetris.Snapshot) {
	if p.failed {
		return
	}
	msg, err := pb.FromSnapshot(p.session, s)
	if err != nil {
		p.logger.Error("unable to encode snapshot", slog.String("error", err.Error()))
		return
	}
	if err := p.stream.Send(msg); err != nil {
		p.failed = true
		if errors.Is(err, io.EOF) {
			// the real error comes with CloseAndRecv.
			p.logger.Debug("send() hub closed the stream with EOF", slog.String("debug", err.Error()))
			return
		}
		p.logger.Error("send() unable to send snapshot", slog.String("error", err.Error()))
	}
}

func (p *publisher) close() {
	if _, err := p.stream.CloseAndRecv(); err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.Canceled {
			p.logger.Debug("publish stream closed with Cancel", slog.String("msg", st.Message()))
		} else {
			p.logger.Error("publish stream closed with error", slog.String("error", err.Error()))
		}
	}
	if err := p.conn.Close(); err != nil {
		p.logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
	}
}

// watch receives the snapshots of a published game and sends them on the
// returned channel, which is closed when the game or the stream ends. The
// error channel gets at most one error.
func watch(ctx context.Context, conn grpc.ClientConnInterface, session string, l *slog.Logger) (<-chan *tetris.Snapshot, <-chan error) {
	updateCh := make(chan *tetris.Snapshot)
	errCh := make(chan error, 1)
	go func() {
		defer close(updateCh)
		stream, err := pb.NewSpectatorClient(conn).Watch(ctx, wrapperspb.String(session))
		if err != nil {
			errCh <- fmt.Errorf("unable to create gRPC Watch stream: %w", err)
			return
		}
		for {
			msg, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					l.Debug("stream.Recv() closed with EOF", slog.String("session", session))
					return
				}
				st, ok := status.FromError(err)
				if ok && st.Code() == codes.Canceled {
					l.Debug("stream.Recv() closed with Cancel", slog.String("msg", st.Message()))
					return
				}
				errCh <- fmt.Errorf("unable to watch session %s: %w", session, err)
				return
			}
			_, s, err := pb.ToSnapshot(msg)
			if err != nil {
				errCh <- err
				return
			}
			select {
			case updateCh <- s:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updateCh, errCh
}
