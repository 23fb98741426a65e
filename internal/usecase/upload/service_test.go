package upload

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// --- Mocks ---

type mockUploader struct {
	mu      sync.Mutex
	receipt domain.UploadReceipt
	err     error
	calls   int
	got     []string

	// block, if set, holds Upload until closed; started is signalled first.
	block   chan struct{}
	started chan struct{}
}

func (m *mockUploader) Upload(_ context.Context, f *domain.File) (domain.UploadReceipt, error) {
	m.mu.Lock()
	m.calls++
	m.got = append(m.got, f.Name())
	m.mu.Unlock()

	if m.block != nil {
		m.started <- struct{}{}
		<-m.block
	}
	return m.receipt, m.err
}

func (m *mockUploader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newFile() *domain.File {
	return domain.NewFile("paper.pdf", []byte("%PDF-1.7"))
}

// --- Tests ---

func TestSelectFile(t *testing.T) {
	svc := New(&mockUploader{})

	st, err := svc.SelectFile(newFile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != "Selected: paper.pdf" {
		t.Errorf("Status = %q", st.Status)
	}
	if !st.HasFile || st.FileName != "paper.pdf" || st.FileSize != 8 {
		t.Errorf("unexpected file state: %+v", st)
	}
	if !st.CanSubmit() {
		t.Error("expected submit to be enabled after selection")
	}
}

func TestSelectFile_NilClears(t *testing.T) {
	svc := New(&mockUploader{})
	_, _ = svc.SelectFile(newFile())

	st, err := svc.SelectFile(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.HasFile {
		t.Error("expected selection to be cleared")
	}
	if st.Status != "No file selected." {
		t.Errorf("Status = %q", st.Status)
	}
	if st.CanSubmit() {
		t.Error("submit must be disabled without a file")
	}
}

func TestSubmit_Success(t *testing.T) {
	up := &mockUploader{receipt: domain.UploadReceipt{Message: "ok"}}
	svc := New(up)
	_, _ = svc.SelectFile(newFile())

	st, err := svc.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Status != "Upload successful! ok" {
		t.Errorf("Status = %q", st.Status)
	}
	if st.HasFile {
		t.Error("expected selected file to be cleared after success")
	}
	if st.Busy {
		t.Error("busy must be cleared")
	}
	if up.callCount() != 1 {
		t.Errorf("upload calls = %d, want 1", up.callCount())
	}
}

func TestSubmit_NoFileSelected(t *testing.T) {
	up := &mockUploader{}
	svc := New(up)

	st, err := svc.Submit(context.Background())
	if !errors.Is(err, domain.ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
	if st.Status != "Please select a file first!" {
		t.Errorf("Status = %q", st.Status)
	}
	if up.callCount() != 0 {
		t.Errorf("expected no network call, got %d", up.callCount())
	}
}

func TestSubmit_ServerFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"with detail", domain.NewServerError(400, "bad format"), "Upload failed: bad format"},
		{"without detail", domain.NewServerError(500, ""), "Upload failed: Unknown error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockUploader{err: tc.err})
			_, _ = svc.SelectFile(newFile())

			st, err := svc.Submit(context.Background())
			if !errors.Is(err, domain.ErrServerFailure) {
				t.Fatalf("expected ErrServerFailure, got %v", err)
			}
			if st.Status != tc.status {
				t.Errorf("Status = %q, want %q", st.Status, tc.status)
			}
			if !st.HasFile {
				t.Error("file must stay selected after a failed upload")
			}
			if st.Busy {
				t.Error("busy must be cleared")
			}
		})
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	svc := New(&mockUploader{err: domain.NewTransportError("upload", cause)})
	_, _ = svc.SelectFile(newFile())

	st, err := svc.Submit(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	want := "Network error: dial tcp 127.0.0.1:8000: connect: connection refused"
	if st.Status != want {
		t.Errorf("Status = %q, want %q", st.Status, want)
	}
	if !st.HasFile {
		t.Error("file must stay selected after a failed upload")
	}
}

func TestSubmit_BusyRejectsSecondCall(t *testing.T) {
	up := &mockUploader{
		receipt: domain.UploadReceipt{Message: "done"},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	svc := New(up)
	_, _ = svc.SelectFile(newFile())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background())
		done <- err
	}()
	<-up.started

	st := svc.State()
	if !st.Busy {
		t.Fatal("expected busy while upload is in flight")
	}
	if st.Status != "Uploading..." {
		t.Errorf("Status = %q", st.Status)
	}
	if st.CanSubmit() || st.CanSelect() {
		t.Error("controls must be disabled while busy")
	}

	if _, err := svc.Submit(context.Background()); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if _, err := svc.SelectFile(domain.NewFile("other.txt", nil)); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("expected ErrBusy on select, got %v", err)
	}

	close(up.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if up.callCount() != 1 {
		t.Errorf("upload calls = %d, want 1", up.callCount())
	}
	if got := svc.State().Status; got != "Upload successful! done" {
		t.Errorf("final Status = %q", got)
	}
}

func TestObserver_SeesTransitions(t *testing.T) {
	var statuses []string
	svc := New(
		&mockUploader{receipt: domain.UploadReceipt{Message: "ok"}},
		WithObserver(func(st State) { statuses = append(statuses, st.Status) }),
	)

	_, _ = svc.SelectFile(newFile())
	_, _ = svc.Submit(context.Background())

	want := []string{"Selected: paper.pdf", "Uploading...", "Upload successful! ok"}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("statuses[%d] = %q, want %q", i, statuses[i], want[i])
		}
	}
}

func TestState_CanSubmit(t *testing.T) {
	tests := []struct {
		st   State
		want bool
	}{
		{State{}, false},
		{State{HasFile: true}, true},
		{State{HasFile: true, Busy: true}, false},
		{State{Busy: true}, false},
	}

	for _, tc := range tests {
		if got := tc.st.CanSubmit(); got != tc.want {
			t.Errorf("CanSubmit(%+v) = %v, want %v", tc.st, got, tc.want)
		}
	}
}
