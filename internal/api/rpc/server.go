package rpc

import (
	"context"
	"errors"
	"time"

	"github.com/toolsascode/revmig/internal/auth"
	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"
	revmigv1 "github.com/toolsascode/revmig/proto/revmig/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Migrator is the part of the executor the gRPC API drives
type Migrator interface {
	Execute(ctx context.Context, req *executor.Request) (*executor.Report, error)
	Current(ctx context.Context) (string, error)
	History(ctx context.Context) ([]*executor.HistoryEntry, error)
	Verify(ctx context.Context) error
	Chain() (*registry.Chain, error)
}

// Server implements revmigv1.RevisionServiceServer on top of the executor
type Server struct {
	revmigv1.UnimplementedRevisionServiceServer
	executor Migrator
}

// NewServer creates a new gRPC server
func NewServer(exec Migrator) *Server {
	return &Server{
		executor: exec,
	}
}

// Upgrade moves forward, to head unless a target is given
func (s *Server) Upgrade(ctx context.Context, req *revmigv1.MigrateRequest) (*revmigv1.MigrateResponse, error) {
	return s.migrate(ctx, req, executor.DirectionUpgrade, revision.Head)
}

// Downgrade moves backward, one revision unless a target is given
func (s *Server) Downgrade(ctx context.Context, req *revmigv1.MigrateRequest) (*revmigv1.MigrateResponse, error) {
	return s.migrate(ctx, req, executor.DirectionDowngrade, "-1")
}

// Plan reports what a migration to the target would do without running it
func (s *Server) Plan(ctx context.Context, req *revmigv1.MigrateRequest) (*revmigv1.MigrateResponse, error) {
	target := revision.Head
	if req.GetTarget() != "" {
		target = req.GetTarget()
	}
	report, err := s.executor.Execute(ctx, &executor.Request{Target: target, DryRun: true})
	if err != nil {
		return nil, toStatus(err)
	}
	return toMigrateResponse(report), nil
}

func (s *Server) migrate(ctx context.Context, req *revmigv1.MigrateRequest, direction executor.Direction, defaultTarget string) (*revmigv1.MigrateResponse, error) {
	target := req.GetTarget()
	if target == "" {
		target = defaultTarget
	}

	ctx = executionContext(ctx)
	report, err := s.executor.Execute(ctx, &executor.Request{
		Target:    target,
		Direction: direction,
		DryRun:    req.GetDryRun(),
	})
	if err != nil {
		// a status carries no report, so partial progress is only logged
		if report != nil && len(report.Processed) > 0 {
			logger.Warnf("gRPC %s to %s stopped after %d revision(s): %v", direction, target, len(report.Processed), err)
		}
		return nil, toStatus(err)
	}
	return toMigrateResponse(report), nil
}

// Current reports the current and head revisions
func (s *Server) Current(ctx context.Context, _ *revmigv1.CurrentRequest) (*revmigv1.CurrentResponse, error) {
	current, err := s.executor.Current(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	chain, err := s.executor.Chain()
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &revmigv1.CurrentResponse{Current: current}
	if head := chain.Head(); head != nil {
		resp.Head = head.ID
	}
	return resp, nil
}

// History lists the chain newest first
func (s *Server) History(ctx context.Context, _ *revmigv1.HistoryRequest) (*revmigv1.HistoryResponse, error) {
	entries, err := s.executor.History(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &revmigv1.HistoryResponse{Revisions: make([]*revmigv1.Revision, 0, len(entries))}
	for _, entry := range entries {
		item := &revmigv1.Revision{
			Id:          entry.Revision,
			Parent:      entry.Parent,
			Description: entry.Description,
			Applied:     entry.Applied,
			IsCurrent:   entry.IsCurrent,
			IsHead:      entry.IsHead,
		}
		if entry.AppliedAt != nil {
			item.AppliedAt = entry.AppliedAt.UTC().Format(time.RFC3339Nano)
		}
		resp.Revisions = append(resp.Revisions, item)
	}
	return resp, nil
}

// Verify runs the drift check. Drift is reported in the response, not as an error.
func (s *Server) Verify(ctx context.Context, _ *revmigv1.VerifyRequest) (*revmigv1.VerifyResponse, error) {
	err := s.executor.Verify(ctx)
	if err == nil {
		return &revmigv1.VerifyResponse{Ok: true}, nil
	}
	var driftErr *executor.DriftDetectedError
	if errors.As(err, &driftErr) {
		return &revmigv1.VerifyResponse{Kind: driftErr.Kind, Revisions: driftErr.Revisions, Message: driftErr.Message}, nil
	}
	return nil, toStatus(err)
}

func executionContext(ctx context.Context) context.Context {
	executedBy := "grpc_client"
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("x-executed-by"); len(values) > 0 && values[0] != "" {
			executedBy = values[0]
		}
	}
	details := map[string]interface{}{"transport": "grpc"}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		details["client_ip"] = p.Addr.String()
	}
	return executor.SetExecutionContext(ctx, executedBy, "api", details)
}

func toMigrateResponse(report *executor.Report) *revmigv1.MigrateResponse {
	resp := &revmigv1.MigrateResponse{
		Success:   report.Success,
		Direction: string(report.Direction),
		Target:    report.Target,
		From:      report.From,
		Tip:       report.Tip,
		Processed: make([]*revmigv1.Step, 0, len(report.Processed)),
		DryRun:    report.DryRun,
		Queued:    report.Queued,
		JobId:     report.JobID,
	}
	for _, step := range report.Processed {
		resp.Processed = append(resp.Processed, toStep(step))
	}
	if report.Failed != nil {
		resp.Failed = toStep(*report.Failed)
	}
	return resp
}

func toStep(step executor.Step) *revmigv1.Step {
	return &revmigv1.Step{
		Revision:    step.Revision,
		Description: step.Description,
		Phase:       string(step.Phase),
		Status:      string(step.Status),
		DurationMs:  step.Duration.Milliseconds(),
		Error:       step.Error,
	}
}

// toStatus maps engine errors to gRPC status codes. The message is prefixed
// with the stable error code.
func toStatus(err error) error {
	var (
		graphErr     *registry.GraphIntegrityError
		ambiguousErr *registry.AmbiguousRevisionError
		driftErr     *executor.DriftDetectedError
		directionErr *executor.DirectionError
		timeoutErr   *executor.TimeoutError
	)
	code := codes.Internal
	switch {
	case errors.Is(err, backends.ErrMigrationInProgress):
		code = codes.Aborted
	case errors.As(err, &driftErr), errors.As(err, &graphErr):
		code = codes.FailedPrecondition
	case errors.Is(err, registry.ErrRevisionNotFound):
		code = codes.NotFound
	case errors.As(err, &ambiguousErr), errors.As(err, &directionErr):
		code = codes.InvalidArgument
	case errors.As(err, &timeoutErr):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Errorf(code, "%s: %v", executor.ErrorCode(err), err)
}

// UnaryAuthInterceptor checks the bearer token in the "authorization" metadata
func UnaryAuthInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			header = values[0]
		}
	}
	if err := auth.Authenticate(header); err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	return handler(ctx, req)
}
