package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavolohq/tavolo/internal/audit/domain"
	"github.com/tavolohq/tavolo/internal/audit/repository"
	"github.com/tavolohq/tavolo/internal/auditctx"
	"github.com/tavolohq/tavolo/internal/clock"
	"github.com/tavolohq/tavolo/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func listPage(token string, size int) pagination.Pagination {
	return pagination.Pagination{PageToken: token, PageSize: size}
}

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}))
	require.NoError(t, db.Exec("DELETE FROM audit_logs").Error)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Repo:  repository.Provide(),
	})
	return svc, fc
}

func TestAuditLogCapturesActorAndRequest(t *testing.T) {
	svc, _ := newTestService(t)

	ctx := auditctx.WithActor(context.Background(), domain.ActorTypeUser, "u-81")
	ctx = auditctx.WithRequestID(ctx, "req-123")
	ctx = auditctx.WithIPAddress(ctx, "10.0.0.9")

	target := "item-1"
	require.NoError(t, svc.AuditLog(ctx, "inventory.stock_increased", "inventory", &target, map[string]any{"delta": 5}))

	resp, err := svc.List(context.Background(), domain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)

	entry := resp.AuditLogs[0]
	assert.Equal(t, domain.ActorTypeUser, entry.ActorType)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "u-81", *entry.ActorID)
	require.NotNil(t, entry.TargetID)
	assert.Equal(t, "item-1", *entry.TargetID)
	assert.Equal(t, "req-123", entry.Metadata["request_id"])
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.9", *entry.IPAddress)
}

func TestAuditLogDefaultsToSystemActor(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.AuditLog(context.Background(), "inventory.item_deleted", "inventory", nil, nil))

	resp, err := svc.List(context.Background(), domain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, domain.ActorTypeSystem, resp.AuditLogs[0].ActorType)
	assert.Nil(t, resp.AuditLogs[0].ActorID)
}

func TestAuditLogRejectsBlankAction(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.AuditLog(context.Background(), "   ", "inventory", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestListFiltersByAction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AuditLog(ctx, "inventory.stock_increased", "inventory", nil, nil))
	require.NoError(t, svc.AuditLog(ctx, "inventory.stock_decreased", "inventory", nil, nil))
	require.NoError(t, svc.AuditLog(ctx, "inventory.stock_decreased", "inventory", nil, nil))

	resp, err := svc.List(ctx, domain.ListAuditLogRequest{Action: "inventory.stock_decreased"})
	require.NoError(t, err)
	assert.Len(t, resp.AuditLogs, 2)
	for _, entry := range resp.AuditLogs {
		assert.Equal(t, "inventory.stock_decreased", entry.Action)
	}
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.AuditLog(ctx, "inventory.stock_adjusted", "inventory", nil, nil))
	}

	first, err := svc.List(ctx, domain.ListAuditLogRequest{Pagination: listPage("", 2)})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	seen := map[string]bool{}
	for _, entry := range first.AuditLogs {
		seen[entry.ID.String()] = true
	}

	second, err := svc.List(ctx, domain.ListAuditLogRequest{Pagination: listPage(first.NextPageToken, 2)})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 2)
	for _, entry := range second.AuditLogs {
		if seen[entry.ID.String()] {
			t.Fatalf("entry %s returned on both pages", entry.ID)
		}
		seen[entry.ID.String()] = true
	}

	third, err := svc.List(ctx, domain.ListAuditLogRequest{Pagination: listPage(second.NextPageToken, 2)})
	require.NoError(t, err)
	assert.Len(t, third.AuditLogs, 1)
	assert.False(t, third.HasMore)
	assert.Empty(t, third.NextPageToken)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, fc := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, domain.ListAuditLogRequest{Pagination: listPage("not-base64!", 10)})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)

	start := fc.Now()
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, domain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
