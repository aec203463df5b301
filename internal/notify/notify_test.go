package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/avashist/upkeep/internal/db"
	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
)

type fakeMailer struct {
	to   string
	body string
	err  error
}

func (m *fakeMailer) Send(to, body string) error {
	m.to = to
	m.body = body
	return m.err
}

func testIncharge() *model.User {
	return &model.User{GovID: "G-400", Email: "incharge@example.com"}
}

func TestNotifyInchargeRecordsAndSends(t *testing.T) {
	database := db.NewTestDB(t)
	mailer := &fakeMailer{}
	d := &Dispatcher{DB: database, Mailer: mailer}

	n, err := d.NotifyIncharge(context.Background(), "G-401", testIncharge(), "new request")
	if err != nil {
		t.Fatalf("NotifyIncharge: %v", err)
	}
	if n.UserID != "G-401" || n.InchargeID != "G-400" {
		t.Errorf("unexpected notification parties: %+v", n)
	}
	if mailer.to != "incharge@example.com" {
		t.Errorf("expected mail to incharge, got %q", mailer.to)
	}
	if mailer.body != "new request" {
		t.Errorf("expected message as mail body, got %q", mailer.body)
	}
}

func TestNotifyInchargeMailFailureIsSwallowed(t *testing.T) {
	database := db.NewTestDB(t)
	mailer := &fakeMailer{err: errors.New("relay down")}
	d := &Dispatcher{DB: database, Mailer: mailer}

	n, err := d.NotifyIncharge(context.Background(), "G-401", testIncharge(), "new request")
	if err != nil {
		t.Fatalf("expected mail failure to be swallowed, got %v", err)
	}

	// The record exists regardless of the failed send.
	notifications, _ := store.ListNotificationsForIncharge(context.Background(), database, "G-400")
	if len(notifications) != 1 || notifications[0].ID != n.ID {
		t.Errorf("expected persisted notification, got %+v", notifications)
	}
}

func TestNotifyInchargeNoMailer(t *testing.T) {
	database := db.NewTestDB(t)
	d := &Dispatcher{DB: database}

	if _, err := d.NotifyIncharge(context.Background(), "G-401", testIncharge(), "new request"); err != nil {
		t.Fatalf("NotifyIncharge without mailer: %v", err)
	}
}
