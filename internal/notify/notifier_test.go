// internal/notify/notifier_test.go
package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/experience"
	"recruit-admin/internal/models"
)

type sentMail struct {
	From, To, Subject, Body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) SendSimpleEmail(_ context.Context, from, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{From: from, To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeSender) all() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sent...)
}

type fakeRenewables struct {
	mu    sync.Mutex
	views []experience.View
	err   error
}

func (f *fakeRenewables) ListRenewable(context.Context) ([]experience.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views, f.err
}

func renewableView(id, nome string, remaining int) experience.View {
	return experience.View{
		ProbationPeriod: models.ProbationPeriod{ID: id, Nome: nome, Vaga: "Vendedor"},
		DaysRemaining:   remaining,
		CanRenew:        true,
	}
}

// ====== Notifier Tests ======

func TestNotifier_ApplicantHired(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))

	n.ApplicantHired(context.Background(), &models.ApplicantRecord{
		ID:     "cand-1",
		Nome:   "Maria Silva",
		Vaga:   "Vendedor",
		Cidade: "Campinas",
	})

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "painel@loja.com", sent[0].From)
	assert.Equal(t, "rh@loja.com", sent[0].To)
	assert.Equal(t, "Contratação: Maria Silva", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Vendedor")
	assert.Contains(t, sent[0].Body, "Campinas")
}

func TestNotifier_DisabledSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", false, logger.NewTestLogger(t))

	n.ApplicantHired(context.Background(), &models.ApplicantRecord{ID: "cand-1", Nome: "Maria"})
	n.RenewalWindowOpen(context.Background(), "Maria", "Vendedor", 3, "per-1")

	assert.Empty(t, sender.all())
}

func TestNotifier_NilSenderIsDisabled(t *testing.T) {
	n := New(nil, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))

	// Must not panic on the nil sender.
	n.ApplicantHired(context.Background(), &models.ApplicantRecord{ID: "cand-1", Nome: "Maria"})
}

func TestNotifier_SendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: fmt.Errorf("ses throttled")}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))

	n.RenewalWindowOpen(context.Background(), "Maria", "Vendedor", 2, "per-1")

	assert.Empty(t, sender.all())
}

// ====== Sweeper Tests ======

func TestSweeper_NotifiesOncePerPeriod(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))
	source := &fakeRenewables{views: []experience.View{
		renewableView("per-1", "Maria Silva", 4),
		renewableView("per-2", "João Souza", 2),
	}}
	s := NewSweeper(source, n, time.Hour, logger.NewTestLogger(t))

	s.sweep(context.Background())
	s.sweep(context.Background())

	sent := sender.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "Renovação disponível: Maria Silva", sent[0].Subject)
	assert.Equal(t, "Renovação disponível: João Souza", sent[1].Subject)
}

func TestSweeper_PicksUpNewPeriods(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))
	source := &fakeRenewables{views: []experience.View{renewableView("per-1", "Maria Silva", 4)}}
	s := NewSweeper(source, n, time.Hour, logger.NewTestLogger(t))

	s.sweep(context.Background())

	source.mu.Lock()
	source.views = append(source.views, renewableView("per-3", "Ana Lima", 5))
	source.mu.Unlock()

	s.sweep(context.Background())

	sent := sender.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "Renovação disponível: Ana Lima", sent[1].Subject)
}

func TestSweeper_SourceFailureSkipsSweep(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))
	source := &fakeRenewables{err: fmt.Errorf("db down")}
	s := NewSweeper(source, n, time.Hour, logger.NewTestLogger(t))

	s.sweep(context.Background())

	assert.Empty(t, sender.all())
}

func TestSweeper_StartAndClose(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "painel@loja.com", "rh@loja.com", true, logger.NewTestLogger(t))
	source := &fakeRenewables{views: []experience.View{renewableView("per-1", "Maria Silva", 4)}}
	s := NewSweeper(source, n, time.Hour, logger.NewTestLogger(t))

	s.Start(context.Background())
	s.Close()

	// The initial sweep runs before the loop starts waiting on the ticker.
	require.Len(t, sender.all(), 1)
}
