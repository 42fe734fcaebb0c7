package store

import (
	"fmt"
	"testing"
	"time"

	"whatsapp-console/internal/database"
	"whatsapp-console/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:store_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func strptr(s string) *string { return &s }

func TestUpsertContact_Idempotent(t *testing.T) {
	s := newTestStore(t)

	first, created, err := s.UpsertContact("+15550001111", strptr("Alice"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	second, created, err := s.UpsertContact("+15550001111", strptr("Someone Else"))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to reuse")
	}
	if second.ID != first.ID {
		t.Fatalf("contact id changed: %s vs %s", first.ID, second.ID)
	}
	if second.Name == nil || *second.Name != "Alice" {
		t.Fatalf("existing name overwritten: %v", second.Name)
	}

	contacts, err := s.ListContacts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
}

func TestGetContactByPhone_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetContactByPhone("+10000000000"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateInboundMessage_DedupByProviderID(t *testing.T) {
	s := newTestStore(t)
	contact, _, err := s.UpsertContact("+15550001111", nil)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	newMsg := func() *models.Message {
		return &models.Message{
			ContactID:         contact.ID,
			Direction:         models.DirectionInbound,
			Content:           "hello",
			MessageType:       "text",
			Status:            models.StatusReceived,
			WhatsAppMessageID: strptr("wamid.dup"),
		}
	}

	first, created, err := s.CreateInboundMessage(newMsg())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created {
		t.Fatal("expected first delivery to create")
	}

	replay, created, err := s.CreateInboundMessage(newMsg())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if created {
		t.Fatal("replayed delivery must not create a second row")
	}
	if replay.ID != first.ID {
		t.Fatalf("replay returned different row: %s vs %s", replay.ID, first.ID)
	}

	all, _ := s.ListMessages()
	if len(all) != 1 {
		t.Fatalf("expected 1 message, got %d", len(all))
	}
}

func TestApplyStatusUpdate_OrderedTransitions(t *testing.T) {
	s := newTestStore(t)
	contact, _, _ := s.UpsertContact("+15550001111", nil)

	msg := &models.Message{
		ContactID:         contact.ID,
		Direction:         models.DirectionOutbound,
		Content:           "hi",
		MessageType:       "text",
		Status:            models.StatusSent,
		WhatsAppMessageID: strptr("wamid.123"),
	}
	if err := s.CreateMessage(msg); err != nil {
		t.Fatalf("create: %v", err)
	}

	// delivered advances
	updated, applied, err := s.ApplyStatusUpdate("wamid.123", models.StatusDelivered)
	if err != nil || !applied {
		t.Fatalf("delivered not applied: applied=%v err=%v", applied, err)
	}
	if updated.Status != models.StatusDelivered {
		t.Fatalf("status = %q", updated.Status)
	}

	// read advances
	if _, applied, _ = s.ApplyStatusUpdate("wamid.123", models.StatusRead); !applied {
		t.Fatal("read not applied")
	}

	// late "sent" must not regress
	stale, applied, err := s.ApplyStatusUpdate("wamid.123", models.StatusSent)
	if err != nil {
		t.Fatalf("stale update: %v", err)
	}
	if applied {
		t.Fatal("out-of-order sent must be ignored")
	}
	if stale.Status != models.StatusRead {
		t.Fatalf("status regressed to %q", stale.Status)
	}
}

func TestApplyStatusUpdate_UnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	msg, applied, err := s.ApplyStatusUpdate("wamid.unknown", models.StatusDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != nil || applied {
		t.Fatalf("expected no-op, got msg=%v applied=%v", msg, applied)
	}
}

func TestApplyStatusUpdate_TargetsOnlyMatchingMessage(t *testing.T) {
	s := newTestStore(t)
	contact, _, _ := s.UpsertContact("+15550001111", nil)

	for _, id := range []string{"wamid.a", "wamid.b"} {
		waID := id
		if err := s.CreateMessage(&models.Message{
			ContactID:         contact.ID,
			Direction:         models.DirectionOutbound,
			Content:           "x",
			MessageType:       "text",
			Status:            models.StatusSent,
			WhatsAppMessageID: &waID,
		}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	if _, applied, _ := s.ApplyStatusUpdate("wamid.a", models.StatusDelivered); !applied {
		t.Fatal("update not applied")
	}

	other, err := s.GetMessageByWhatsAppID("wamid.b")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if other.Status != models.StatusSent {
		t.Fatalf("unrelated message touched: %q", other.Status)
	}
}

func TestSetMessageStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SetMessageStatus("missing", models.StatusRead); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageListOrdering(t *testing.T) {
	s := newTestStore(t)
	contact, _, _ := s.UpsertContact("+15550001111", nil)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		if err := s.CreateMessage(&models.Message{
			ContactID:   contact.ID,
			Direction:   models.DirectionInbound,
			Content:     fmt.Sprintf("msg-%d", i),
			MessageType: "text",
			Status:      models.StatusReceived,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	newest, err := s.ListMessages()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if newest[0].Content != "msg-2" {
		t.Fatalf("global list not newest-first: %q", newest[0].Content)
	}

	conv, err := s.ListMessagesByContact(contact.ID)
	if err != nil {
		t.Fatalf("list by contact: %v", err)
	}
	if conv[0].Content != "msg-0" {
		t.Fatalf("conversation not oldest-first: %q", conv[0].Content)
	}
}

func TestGetStats_DayBoundary(t *testing.T) {
	s := newTestStore(t)
	contact, _, _ := s.UpsertContact("+15550001111", nil)

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)

	seed := []struct {
		direction string
		status    string
		ts        time.Time
	}{
		{models.DirectionOutbound, models.StatusSent, midnight.Add(time.Minute)},       // today
		{models.DirectionOutbound, models.StatusDelivered, midnight.Add(2 * time.Hour)}, // today
		{models.DirectionOutbound, models.StatusRead, midnight.Add(-time.Minute)},       // yesterday
		{models.DirectionInbound, models.StatusReceived, midnight.Add(time.Hour)},       // inbound, not "sent"
	}
	for i, m := range seed {
		if err := s.CreateMessage(&models.Message{
			ContactID:   contact.ID,
			Direction:   m.direction,
			Content:     fmt.Sprintf("m%d", i),
			MessageType: "text",
			Status:      m.status,
			Timestamp:   m.ts,
		}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	if err := s.CreateFlow(&models.Flow{Name: "active", IsActive: 1, FlowData: []byte(`{}`)}); err != nil {
		t.Fatalf("flow: %v", err)
	}
	if err := s.CreateFlow(&models.Flow{Name: "inactive", IsActive: 0, FlowData: []byte(`{}`)}); err != nil {
		t.Fatalf("flow: %v", err)
	}

	stats, err := s.GetStats(now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalMessages != 4 {
		t.Errorf("TotalMessages = %d, want 4", stats.TotalMessages)
	}
	if stats.SentToday != 2 {
		t.Errorf("SentToday = %d, want 2", stats.SentToday)
	}
	if stats.Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", stats.Delivered)
	}
	if stats.ActiveFlows != 1 {
		t.Errorf("ActiveFlows = %d, want 1", stats.ActiveFlows)
	}
}

func TestFlowCRUD(t *testing.T) {
	s := newTestStore(t)

	flow := &models.Flow{Name: "welcome", Description: "greets", FlowData: []byte(`{"nodes":[],"edges":[]}`)}
	if err := s.CreateFlow(flow); err != nil {
		t.Fatalf("create: %v", err)
	}

	active := 1
	name := "welcome v2"
	updated, err := s.UpdateFlow(flow.ID, FlowUpdate{Name: &name, IsActive: &active})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "welcome v2" || updated.IsActive != 1 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Description != "greets" {
		t.Fatalf("untouched field changed: %q", updated.Description)
	}

	activeFlows, err := s.ListActiveFlows()
	if err != nil || len(activeFlows) != 1 {
		t.Fatalf("active flows = %d, err %v", len(activeFlows), err)
	}

	if _, err := s.UpdateFlow("missing", FlowUpdate{Name: &name}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteFlow(flow.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetFlow(flow.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTemplateCRUDAndStatusFilter(t *testing.T) {
	s := newTestStore(t)

	for _, tc := range []struct{ name, status string }{
		{"welcome", "approved"},
		{"promo", "pending"},
	} {
		if err := s.CreateTemplate(&models.Template{
			Name:     tc.name,
			Content:  "Hi {{name}}",
			Category: "utility",
			Status:   tc.status,
		}); err != nil {
			t.Fatalf("create %s: %v", tc.name, err)
		}
	}

	approved, err := s.ListTemplatesByStatus("approved")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(approved) != 1 || approved[0].Name != "welcome" {
		t.Fatalf("unexpected filter result: %+v", approved)
	}
	if approved[0].Language != "en" {
		t.Fatalf("language default missing: %q", approved[0].Language)
	}

	status := "rejected"
	updated, err := s.UpdateTemplate(approved[0].ID, TemplateUpdate{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "rejected" {
		t.Fatalf("status not updated: %q", updated.Status)
	}

	if err := s.DeleteTemplate(approved[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := s.ListTemplates()
	if len(all) != 1 {
		t.Fatalf("expected 1 template left, got %d", len(all))
	}
}
