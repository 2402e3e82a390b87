// Package server implements the spectator hub: it keeps the latest snapshot of
// every published game and fans updates out to the watchers of that game.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"termtris/pb"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// watcherBuffer is the number of snapshots a watcher can fall behind before
// the oldest ones are dropped.
const watcherBuffer = 16

type session struct {
	latest   *structpb.Struct
	watchers map[chan *structpb.Struct]struct{}
}

type spectatorServer struct {
	pb.UnimplementedSpectatorServer
	logger   *slog.Logger
	sessions map[string]*session
	mu       sync.Mutex
}

func New(l *slog.Logger) pb.SpectatorServer {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &spectatorServer{
		logger:   l,
		sessions: make(map[string]*session),
	}
}

func (s *spectatorServer) Publish(stream grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error {
	var id string
	defer func() {
		if id != "" {
			s.end(id)
		}
	}()

	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stream.SendAndClose(&emptypb.Empty{})
			}
			return fmt.Errorf("failed to receive snapshot: %w", err)
		}
		sid := msg.GetFields()["session"].GetStringValue()
		if id == "" {
			if err := validateID(sid); err != nil {
				return err
			}
			if err := s.open(sid, msg); err != nil {
				return err
			}
			id = sid
			continue
		}
		if sid != id {
			return status.Errorf(codes.InvalidArgument, "session changed from %q to %q", id, sid)
		}
		s.broadcast(id, msg)
	}
}

func (s *spectatorServer) Watch(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	id := req.GetValue()
	if err := validateID(id); err != nil {
		return err
	}
	ch, latest, err := s.subscribe(id)
	if err != nil {
		return err
	}
	defer s.unsubscribe(id, ch)

	if err := stream.Send(latest); err != nil {
		return fmt.Errorf("failed to send snapshot: %w", err)
	}
	ctx := stream.Context()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				s.logger.Debug("session ended", slog.String("session", id))
				return nil
			}
			if err := stream.Send(msg); err != nil {
				return fmt.Errorf("failed to send snapshot: %w", err)
			}
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		}
	}
}

func (s *spectatorServer) Sessions(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	slices.Sort(ids)
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return structpb.NewList(values)
}

func (s *spectatorServer) open(id string, first *structpb.Struct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return status.Errorf(codes.AlreadyExists, "session %q is already published", id)
	}
	s.sessions[id] = &session{
		latest:   first,
		watchers: make(map[chan *structpb.Struct]struct{}),
	}
	s.logger.Info("session started", slog.String("session", id))
	return nil
}

// broadcast never blocks the publisher: a watcher with a full buffer loses
// its oldest pending snapshot.
func (s *spectatorServer) broadcast(id string, msg *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.latest = msg
	for ch := range sess.watchers {
		select {
		case ch <- msg:
			continue
		default:
		}
		select {
		case <-ch:
			s.logger.Debug("dropped snapshot for slow watcher", slog.String("session", id))
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *spectatorServer) end(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	for ch := range sess.watchers {
		close(ch)
	}
	delete(s.sessions, id)
	s.logger.Info("session ended", slog.String("session", id), slog.Int("watchers", len(sess.watchers)))
}

func (s *spectatorServer) subscribe(id string) (chan *structpb.Struct, *structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil, status.Errorf(codes.NotFound, "session %q not found", id)
	}
	ch := make(chan *structpb.Struct, watcherBuffer)
	sess.watchers[ch] = struct{}{}
	return ch, sess.latest, nil
}

func (s *spectatorServer) unsubscribe(id string, ch chan *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		delete(sess.watchers, ch)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid session id %q: %v", id, err)
	}
	return nil
}
