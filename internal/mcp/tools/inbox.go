package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/notification"
)

// ListNotificationsParams defines the arguments for the list_notifications tool
type ListNotificationsParams struct {
	ActorID    string `json:"actor_id" jsonschema:"Recipient user id"`
	UnreadOnly bool   `json:"unread_only,omitempty" jsonschema:"Only return unread notifications"`
}

// ListNotificationsResult is the recipient's inbox, newest first
type ListNotificationsResult struct {
	Unread        int                   `json:"unread"`
	Notifications []domain.Notification `json:"notifications"`
}

// MarkNotificationReadParams defines the arguments for the mark_notification_read tool
type MarkNotificationReadParams struct {
	ActorID        string `json:"actor_id" jsonschema:"Recipient user id"`
	NotificationID string `json:"notification_id" jsonschema:"Notification to mark as read"`
}

type inboxTools struct {
	inbox *notification.Service
}

// WithInboxTools registers list_notifications and mark_notification_read
func WithInboxTools(inbox *notification.Service) Option {
	return func(reg *registry) {
		t := inboxTools{inbox: inbox}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_notifications",
			Description: "List a user's notifications, newest first",
		}, t.list)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "mark_notification_read",
			Description: "Mark one of the user's notifications as read",
		}, t.markRead)
	}
}

func (t inboxTools) list(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ListNotificationsParams) (*sdkmcp.CallToolResult, any, error) {
	items, err := t.inbox.ListForUser(ctx, params.ActorID)
	if err != nil {
		return nil, nil, toolError("list_notifications", err)
	}

	result := ListNotificationsResult{Notifications: make([]domain.Notification, 0, len(items))}
	for _, n := range items {
		if !n.IsRead {
			result.Unread++
		}
		if params.UnreadOnly && n.IsRead {
			continue
		}
		result.Notifications = append(result.Notifications, n)
	}

	msg := fmt.Sprintf("[list_notifications] %d notification(s), %d unread", len(result.Notifications), result.Unread)
	return textResult(msg), result, nil
}

func (t inboxTools) markRead(ctx context.Context, _ *sdkmcp.CallToolRequest, params *MarkNotificationReadParams) (*sdkmcp.CallToolResult, any, error) {
	n, err := t.inbox.MarkRead(ctx, params.ActorID, params.NotificationID)
	if err != nil {
		return nil, nil, toolError("mark_notification_read", err)
	}
	return textResult(fmt.Sprintf("[mark_notification_read] notification %s read", n.ID)), n, nil
}
