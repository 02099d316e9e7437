package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

func newNotifService(users *memUsers, notifs *memNotifs, config *memConfig) *NotificationService {
	svc := NewNotificationService(users, notifs, config, &recordingAudit{}, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func notifFixtureUsers() *memUsers {
	// c1 is expired, c2 expires in 10 days, c3 is active and yields no notice.
	return newMemUsers(domain.User{Username: "alice", Certifications: []domain.Certification{
		{ID: "c1", Name: "AWS SA", ExpiryDate: "2026-06-01"},
		{ID: "c2", Name: "K8s", ExpiryDate: "2026-06-25"},
		{ID: "c3", Name: "Safety", ExpiryDate: "2027-06-15"},
	}})
}

func TestNotificationService_ListForUser_GeneratesNotices(t *testing.T) {
	notifs := newMemNotifs()
	svc := newNotifService(notifFixtureUsers(), notifs, newMemConfig())

	got, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}

	byID := map[string]domain.Notification{}
	for _, n := range got {
		byID[n.ID] = n
	}
	if byID["c1"].Type != domain.NotificationExpired {
		t.Fatalf("expected expired notice for c1, got %+v", byID["c1"])
	}
	if byID["c2"].Type != domain.NotificationExpiringSoon {
		t.Fatalf("expected expiring-soon notice for c2, got %+v", byID["c2"])
	}

	// The merged list is persisted.
	persisted, _ := notifs.ListForUser(context.Background(), "alice")
	if len(persisted) != 2 {
		t.Fatalf("merged list not persisted, got %d entries", len(persisted))
	}
}

func TestNotificationService_ListForUser_KeepsReadStateAcrossLoads(t *testing.T) {
	notifs := newMemNotifs()
	svc := newNotifService(notifFixtureUsers(), notifs, newMemConfig())

	first, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if err := svc.MarkRead(context.Background(), "alice", first[0].ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}

	second, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("repeated load duplicated notices: %d then %d", len(first), len(second))
	}

	readCount := 0
	for _, n := range second {
		if n.Read {
			readCount++
		}
	}
	if readCount != 1 {
		t.Fatalf("read state lost on reload, %d read entries", readCount)
	}

	unread, _ := svc.ListForUser(context.Background(), "alice", "unread")
	if len(unread) != len(first)-1 {
		t.Fatalf("unread filter returned %d entries", len(unread))
	}
}

func TestNotificationService_ListForUser_KeepsDeliveredBroadcast(t *testing.T) {
	notifs := newMemNotifs()
	svc := newNotifService(notifFixtureUsers(), notifs, newMemConfig())

	notice := domain.Notification{
		ID:        "b1",
		Type:      domain.NotificationAdminMessage,
		Title:     "📢 Maintenance",
		Message:   "Window on Saturday",
		Timestamp: testNow,
		SendBy:    "admin",
	}
	if err := svc.Deliver(context.Background(), "alice", notice); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	got, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 2 expiry notices plus the broadcast, got %d", len(got))
	}
	found := false
	for _, n := range got {
		if n.ID == "b1" && n.Type == domain.NotificationAdminMessage {
			found = true
		}
	}
	if !found {
		t.Fatalf("delivered broadcast dropped by the merge: %+v", got)
	}

	persisted, _ := notifs.ListForUser(context.Background(), "alice")
	if len(persisted) != 3 {
		t.Fatalf("broadcast lost from the persisted list, got %d entries", len(persisted))
	}
}

func TestNotificationService_Preferences_SuppressNotices(t *testing.T) {
	config := newMemConfig()
	if err := config.SavePreferences(context.Background(), domain.NotificationPreferences{
		Expired:      false,
		ExpiringSoon: true,
	}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	svc := newNotifService(notifFixtureUsers(), newMemNotifs(), config)

	got, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(got) != 1 || got[0].Type != domain.NotificationExpiringSoon {
		t.Fatalf("expired notices should be suppressed: %+v", got)
	}
}

func TestNotificationService_AlertsDisabled(t *testing.T) {
	config := newMemConfig()
	cfg := domain.DefaultSystemConfig()
	cfg.ExpiryAlertEnabled = false
	if err := config.SaveConfig(context.Background(), cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	svc := newNotifService(notifFixtureUsers(), newMemNotifs(), config)

	got, err := svc.ListForUser(context.Background(), "alice", "all")
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no notices with alerts disabled, got %d", len(got))
	}
}

func TestNotificationService_Broadcast_SendToAll(t *testing.T) {
	users := newMemUsers(
		domain.User{Username: "alice"},
		domain.User{Username: "bob"},
	)
	notifs := newMemNotifs()
	svc := newNotifService(users, notifs, newMemConfig())

	record, err := svc.Broadcast(context.Background(), ports.BroadcastInput{
		Title:     "Maintenance",
		Message:   "Window on Saturday",
		SendBy:    "admin",
		SendToAll: true,
	})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if record.ID == "" {
		t.Fatalf("expected generated broadcast id")
	}
	if len(record.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %v", record.Recipients)
	}

	history, _ := svc.ListBroadcasts(context.Background())
	if len(history) != 1 || history[0].Title != "Maintenance" {
		t.Fatalf("broadcast not recorded in history: %+v", history)
	}
}

func TestNotificationService_Broadcast_Validation(t *testing.T) {
	svc := newNotifService(newMemUsers(), newMemNotifs(), newMemConfig())

	if _, err := svc.Broadcast(context.Background(), ports.BroadcastInput{Message: "m"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields without title, got %v", err)
	}
	if _, err := svc.Broadcast(context.Background(), ports.BroadcastInput{Title: "t", Message: "m"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields without recipients, got %v", err)
	}
}

func TestNotificationService_Deliver(t *testing.T) {
	notifs := newMemNotifs()
	svc := newNotifService(newMemUsers(), notifs, newMemConfig())

	notice := domain.Notification{
		ID:        "b1",
		Type:      domain.NotificationAdminMessage,
		Title:     "📢 Maintenance",
		Message:   "Window on Saturday",
		Timestamp: testNow,
		SendBy:    "admin",
	}
	if err := svc.Deliver(context.Background(), "alice", notice); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	got, _ := notifs.ListForUser(context.Background(), "alice")
	if len(got) != 1 || got[0].ID != "b1" || got[0].Type != domain.NotificationAdminMessage {
		t.Fatalf("delivery not persisted: %+v", got)
	}
}

func TestNotificationService_DeleteAndClear(t *testing.T) {
	notifs := newMemNotifs()
	_ = notifs.SaveForUser(context.Background(), "alice", []domain.Notification{
		{ID: "n1"}, {ID: "n2"},
	})
	svc := newNotifService(newMemUsers(domain.User{Username: "alice"}), notifs, newMemConfig())

	if err := svc.Delete(context.Background(), "alice", "n1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "alice", "n1"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}

	if err := svc.ClearAll(context.Background(), "alice"); err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}
	got, _ := notifs.ListForUser(context.Background(), "alice")
	if len(got) != 0 {
		t.Fatalf("notifications survive ClearAll: %+v", got)
	}
}

func TestNotificationService_DeleteBroadcast(t *testing.T) {
	notifs := newMemNotifs()
	svc := newNotifService(newMemUsers(domain.User{Username: "alice"}), notifs, newMemConfig())

	record, err := svc.Broadcast(context.Background(), ports.BroadcastInput{
		Title: "t", Message: "m", SendBy: "admin", Recipients: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if err := svc.DeleteBroadcast(context.Background(), record.ID); err != nil {
		t.Fatalf("DeleteBroadcast returned error: %v", err)
	}
	if err := svc.DeleteBroadcast(context.Background(), record.ID); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}
