package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// InquiriesRepository 演示申请 / 联系消息 Repository 接口。
// 追加型日志：只有 create 和全量读取（读取权限由调用方把关）。
type InquiriesRepository interface {
	CreateDemoRequest(ctx context.Context, nd domain.NewDemoRequest) (*domain.DemoRequest, error)
	GetAllDemoRequests(ctx context.Context) ([]*domain.DemoRequest, error)

	CreateContactMessage(ctx context.Context, nm domain.NewContactMessage) (*domain.ContactMessage, error)
	GetAllContactMessages(ctx context.Context) ([]*domain.ContactMessage, error)
}
