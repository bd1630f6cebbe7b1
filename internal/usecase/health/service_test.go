package health

import (
	"context"
	"errors"
	"testing"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
)

// --- Mocks ---

type mockKnowledgeBase struct {
	err   error
	files []domdoc.FileInfo
}

func (m *mockKnowledgeBase) Check(_ context.Context) error { return m.err }

func (m *mockKnowledgeBase) List(_ context.Context) ([]domdoc.FileInfo, error) {
	return m.files, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChatChecker struct {
	err error
}

func (m *mockChatChecker) HealthCheck(_ context.Context) error { return m.err }

func twoFiles() *mockKnowledgeBase {
	return &mockKnowledgeBase{files: []domdoc.FileInfo{{Name: "a.md"}, {Name: "b.pdf"}}}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(twoFiles(), &mockPinger{}, &mockChatChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.DocumentsCount != 2 {
		t.Errorf("expected 2 documents, got %d", r.DocumentsCount)
	}
	for _, name := range []string{CheckKnowledgeBase, CheckCache, CheckChat} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_KnowledgeBaseError(t *testing.T) {
	svc := New(&mockKnowledgeBase{err: errors.New("no such dir")}, nil, &mockChatChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[CheckKnowledgeBase] != CheckError {
		t.Error("expected knowledge_base error")
	}
	if r.DocumentsCount != 0 {
		t.Errorf("expected 0 documents, got %d", r.DocumentsCount)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(twoFiles(), &mockPinger{err: errors.New("conn refused")}, &mockChatChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckCache] != CheckError {
		t.Error("expected cache error")
	}
}

func TestCheck_ChatError(t *testing.T) {
	svc := New(twoFiles(), nil, &mockChatChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckChat] != CheckError {
		t.Error("expected chat error")
	}
}

func TestCheck_NoChatProvider(t *testing.T) {
	svc := New(twoFiles(), nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[CheckChat] != CheckError {
		t.Error("expected chat error when not configured")
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(twoFiles(), nil, &mockChatChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[CheckCache]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_WithoutChat(t *testing.T) {
	svc := New(twoFiles(), nil, nil).WithoutChat()
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[CheckChat]; ok {
		t.Error("chat check should be absent")
	}
}
