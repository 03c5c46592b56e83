package netx

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealthReacher asks a backend's standard gRPC health service whether
// Service is SERVING.
type GRPCHealthReacher struct {
	client  healthpb.HealthClient
	service string
}

func NewGRPCHealthReacher(conn grpc.ClientConnInterface, service string) *GRPCHealthReacher {
	return &GRPCHealthReacher{client: healthpb.NewHealthClient(conn), service: service}
}

// DialHealth creates a lazily connecting client for addr. The connection is
// only attempted by the first health check.
func DialHealth(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func (g *GRPCHealthReacher) Reachable(ctx context.Context) bool {
	resp, err := g.client.Check(ctx, &healthpb.HealthCheckRequest{Service: g.service})
	if err != nil {
		return false
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}
