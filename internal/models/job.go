package models

import (
	"encoding/json"
	"time"
)

// Имена фоновых задач. Имя задачи служит ключом маршрутизации.
const (
	TaskNotifySubscribers  = "course.notify_subscribers"
	TaskDeactivateInactive = "users.deactivate_inactive"
)

// Tasks все известные задачи.
var Tasks = []string{TaskNotifySubscribers, TaskDeactivateInactive}

// Job конверт фоновой задачи.
type Job struct {
	Task       string          `json:"task"`
	Args       json.RawMessage `json:"args"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob упаковывает аргументы задачи в конверт.
func NewJob(task string, args any, now time.Time) (Job, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return Job{}, err
	}
	return Job{Task: task, Args: raw, EnqueuedAt: now.UTC()}, nil
}

// NotifySubscribersArgs аргументы рассылки подписчикам курса.
type NotifySubscribersArgs struct {
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// DeactivateInactiveArgs аргументы деактивации неактивных пользователей.
type DeactivateInactiveArgs struct{}
