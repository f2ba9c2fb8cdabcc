package server

import (
	"context"
	"time"

	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/ChuLiYu/cpusched/internal/worker"
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements the Simulator gRPC service
type Server struct {
	collector  *metrics.Collector
	logger     zerolog.Logger
	workers    int
	bufferSize int
}

var _ SimulatorServer = (*Server)(nil)

// NewServer creates a new gRPC server instance. collector may be nil.
// workers and bufferSize size the pool used by Compare.
func NewServer(collector *metrics.Collector, logger zerolog.Logger, workers, bufferSize int) *Server {
	return &Server{
		collector:  collector,
		logger:     logger,
		workers:    workers,
		bufferSize: bufferSize,
	}
}

// NewGRPCServer returns a grpc.Server with the Simulator service and request
// logging installed
func (s *Server) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.logUnary))
	g := grpc.NewServer(opts...)
	RegisterSimulatorServer(g, s)
	return g
}

// Simulate runs one algorithm
func (s *Server) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request
	if err := decode(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	alg, err := types.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	start := time.Now()
	report, err := scheduler.Simulate(alg, req.Tasks, req.Quantum)
	if err != nil {
		if s.collector != nil {
			s.collector.RecordError(err)
		}
		return nil, toStatus(err)
	}
	if s.collector != nil {
		s.collector.RecordSimulation(report, time.Since(start))
	}

	return encode(simulateResponse{RunID: runID(ctx), Report: report})
}

// Compare runs several algorithms on the same task set
func (s *Server) Compare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request
	if err := decode(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	var algs []types.Algorithm
	for _, name := range req.Algorithms {
		alg, err := types.ParseAlgorithm(name)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		algs = append(algs, alg)
	}

	if err := scheduler.ValidateTasks(req.Tasks, false); err != nil {
		return nil, toStatus(err)
	}

	reports, err := worker.Compare(req.Tasks, algs, req.Quantum, worker.CompareOptions{
		Workers:    s.workers,
		BufferSize: s.bufferSize,
		Collector:  s.collector,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return encode(compareResponse{RunID: runID(ctx), Reports: reports})
}

// toStatus maps engine errors onto gRPC codes: usage mistakes become
// InvalidArgument, consistency violations Internal
func toStatus(err error) error {
	switch {
	case scheduler.IsInputError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case scheduler.IsInternalError(err):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.FailedPrecondition, err.Error())
	}
}

type runIDKey struct{}

func runID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return uuid.NewString()
}

// logUnary tags each call with a run id and logs its outcome
func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, runIDKey{}, id)

	start := time.Now()
	resp, err := handler(ctx, req)

	var event *zerolog.Event
	if err != nil {
		event = s.logger.Warn().Err(err).Str("code", status.Code(err).String())
	} else {
		event = s.logger.Info()
	}
	event.Str("method", info.FullMethod).
		Str("run_id", id).
		Dur("elapsed", time.Since(start)).
		Msg("rpc handled")

	return resp, err
}
