package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SchedulerClient 外部排程建议服务客户端。服务本身是黑盒：
// 这里只定义入参/出参契约并转发，不校验建议内容。

// TaskPriority 任务优先级
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// SchedulerTask 待排程任务
type SchedulerTask struct {
	Name     string       `json:"name"`
	Priority TaskPriority `json:"priority"`
	Duration string       `json:"duration"`
}

// RhythmEntry 一天内的节律条目
type RhythmEntry struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	EnergyLevel string `json:"energyLevel"` // high / medium / low
	Impactful   bool   `json:"impactful"`
}

// ScheduleRequest 排程建议请求
type ScheduleRequest struct {
	Tasks       []SchedulerTask `json:"tasks"`
	DailyRhythm []RhythmEntry   `json:"dailyRhythm"`
	Preference  string          `json:"timeBlockingPreference"`
}

// ScheduleSuggestion 单条建议
type ScheduleSuggestion struct {
	TaskName      string `json:"taskName"`
	SuggestedTime string `json:"suggestedTime"`
	Reason        string `json:"reason"`
}

// ScheduleResponse 排程建议响应
type ScheduleResponse struct {
	Suggestions []ScheduleSuggestion `json:"suggestions"`
	Summary     string               `json:"summary"`
}

type SchedulerClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewSchedulerClient(baseURL, apiKey string, logger *zap.Logger) *SchedulerClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &SchedulerClient{
		httpClient: client,
		logger:     logger,
	}
}

// SuggestSchedule 请求排程建议
func (c *SchedulerClient) SuggestSchedule(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error) {
	c.logger.Info("calling scheduler service",
		zap.Int("tasks", len(req.Tasks)),
		zap.Int("rhythm_entries", len(req.DailyRhythm)),
	)

	var out ScheduleResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/v1/schedule/suggest")
	if err != nil {
		c.logger.Error("scheduler service call failed", zap.Error(err))
		return nil, fmt.Errorf("scheduler service: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("scheduler service: status %d", resp.StatusCode())
	}
	return &out, nil
}
