package grpc_control

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"stock-board/src/logger"
	"stock-board/src/models"
)

func TestMarketHealthTransitions(t *testing.T) {
	svc := NewControlService("stock-board", []models.Market{models.MarketKR, models.MarketUS}, logger.NewSilentLogger("grpc"))
	ctx := context.Background()

	st, err := svc.Check(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)

	st, _ = svc.Check(ctx, "stock-board.kr")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)

	svc.MarketReady(models.MarketKR, true)
	svc.MarketReady(models.MarketUS, false)

	st, _ = svc.Check(ctx, "stock-board.kr")
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)
	st, _ = svc.Check(ctx, "stock-board.us")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)

	_, err = svc.Check(ctx, "stock-board.jp")
	assert.Error(t, err)
}

func TestHealthOverTheWire(t *testing.T) {
	svc := NewControlService("stock-board", []models.Market{models.MarketKR}, logger.NewSilentLogger("grpc"))
	lis := bufconn.Listen(1 << 20)
	go svc.Serve(lis)
	defer svc.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	svc.MarketReady(models.MarketKR, true)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: "stock-board.kr"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
