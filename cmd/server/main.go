package main

import (
	"flag"
	"log"
	"log/slog"
	"net"
	"os"

	"termtris/pb"
	"termtris/server"

	"google.golang.org/grpc"
)

func main() {
	addr := flag.String("addr", ":9000", "address to listen on")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	defer lis.Close()
	s := grpc.NewServer()
	defer s.Stop()
	pb.RegisterSpectatorServer(s, server.New(logger))

	logger.Info("starting spectator hub", slog.String("address", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
