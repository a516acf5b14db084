package imaging

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"docforge/internal/domain"
)

func testAcquirer(t *testing.T, chain []Source) *Acquirer {
	t.Helper()
	return NewAcquirer(NewCache(1<<20), chain, 2*time.Second, zerolog.Nop())
}

func TestAcquireFallsBackToSyntheticWhenAllSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	chain := []Source{
		NewHTTPSource("primary", srv.URL, srv.Client()),
		NewHTTPSource("secondary", srv.URL, srv.Client()),
		NewLocalSource(t.TempDir()),
	}
	a := testAcquirer(t, chain)

	data, err := a.Acquire(context.Background(), Request{SubjectID: "T-1", Kind: "photo", Width: 100, Height: 80})
	if err != nil {
		t.Fatalf("Acquire should not fail when synthetic fallback exists: %v", err)
	}
	if err := validateImage(data); err != nil {
		t.Fatalf("fallback bytes are not a decodable image: %v", err)
	}
}

func TestAcquireUsesFirstHealthySource(t *testing.T) {
	want := renderPlaceholder(10, 10, "fixedseedfixedse")
	var primaryHits, secondaryHits atomic.Int32

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		primaryHits.Add(1)
		w.Write(want)
	}))
	defer primary.Close()
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		secondaryHits.Add(1)
		w.Write(renderPlaceholder(10, 10, "otherseedotherse"))
	}))
	defer secondary.Close()

	a := testAcquirer(t, []Source{
		NewHTTPSource("primary", primary.URL, primary.Client()),
		NewHTTPSource("secondary", secondary.URL, secondary.Client()),
	})

	got, err := a.Acquire(context.Background(), Request{SubjectID: "S-9", Kind: "photo", Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("expected bytes from the primary source")
	}
	if secondaryHits.Load() != 0 {
		t.Fatal("secondary should not be consulted when primary succeeds")
	}
	if primaryHits.Load() != 1 {
		t.Fatalf("primary hit %d times, want 1", primaryHits.Load())
	}
}

func TestAcquireServesRepeatFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write(renderPlaceholder(10, 10, "fixedseedfixedse"))
	}))
	defer srv.Close()

	a := testAcquirer(t, []Source{NewHTTPSource("primary", srv.URL, srv.Client())})
	req := Request{SubjectID: "S-1", Kind: "photo", Width: 10, Height: 10}

	for i := 0; i < 3; i++ {
		if _, err := a.Acquire(context.Background(), req); err != nil {
			t.Fatalf("Acquire #%d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("source hit %d times, want 1 (later calls must be cache hits)", hits.Load())
	}
}

func TestAcquireCoalescesConcurrentRequests(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		w.Write(renderPlaceholder(10, 10, "fixedseedfixedse"))
	}))
	defer srv.Close()

	a := testAcquirer(t, []Source{NewHTTPSource("primary", srv.URL, srv.Client())})
	req := Request{SubjectID: "S-2", Kind: "photo", Width: 10, Height: 10}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Acquire(context.Background(), req)
		}(i)
	}

	// Give the goroutines time to pile onto the same flight, then let the
	// single upstream request finish.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("source hit %d times, want exactly 1 for coalesced callers", hits.Load())
	}
}

func TestAcquireWaiterSurvivesCancelledCaller(t *testing.T) {
	var enteredOnce sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		enteredOnce.Do(func() { close(entered) })
		<-release
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := testAcquirer(t, []Source{NewHTTPSource("primary", srv.URL, srv.Client())})
	req := Request{SubjectID: "S-4", Kind: "photo", Width: 10, Height: 10}

	ownerCtx, cancel := context.WithCancel(context.Background())
	ownerErr := make(chan error, 1)
	go func() {
		_, err := a.Acquire(ownerCtx, req)
		ownerErr <- err
	}()
	<-entered

	var (
		waiterData []byte
		waiterErr  error
	)
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		waiterData, waiterErr = a.Acquire(context.Background(), req)
	}()

	// Let the waiter join the in-flight fetch, then cancel the caller that
	// started it while the source is still blocked.
	time.Sleep(100 * time.Millisecond)
	cancel()
	if err := <-ownerErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: got %v, want context.Canceled", err)
	}

	close(release)
	<-waiterDone
	if waiterErr != nil {
		t.Fatalf("waiter with a live context must not inherit the cancellation: %v", waiterErr)
	}
	if err := validateImage(waiterData); err != nil {
		t.Fatalf("waiter bytes are not a decodable image: %v", err)
	}
}

func TestHTTPSourceRejectsOversizeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// A valid image header followed by padding past the size limit: the
		// body sniffs as a real image but must still be refused whole.
		w.Write(renderPlaceholder(10, 10, "fixedseedfixedse"))
		w.Write(make([]byte, maxImageBytes))
	}))
	defer srv.Close()

	src := NewHTTPSource("primary", srv.URL, srv.Client())
	_, err := src.Fetch(context.Background(), Request{SubjectID: "S-5", Kind: "photo", Width: 10, Height: 10})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("oversize body: got %v, want ErrSourceUnavailable", err)
	}
}

func TestAcquireLocalSource(t *testing.T) {
	dir := t.TempDir()
	asset := renderPlaceholder(20, 20, "fixedseedfixedse")
	if err := os.WriteFile(filepath.Join(dir, "S-3_photo.png"), asset, 0o644); err != nil {
		t.Fatal(err)
	}

	a := testAcquirer(t, []Source{NewLocalSource(dir)})
	got, err := a.Acquire(context.Background(), Request{SubjectID: "S-3", Kind: "photo", Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !bytes.Equal(got, asset) {
		t.Fatal("expected bytes from the local asset library")
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	s := NewSyntheticSource()
	req := Request{SubjectID: "T-1", Kind: "photo", Width: 64, Height: 48}

	first, err := s.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, _ := s.Fetch(context.Background(), req)
	if !bytes.Equal(first, second) {
		t.Fatal("synthetic output must be deterministic per request")
	}

	other, _ := s.Fetch(context.Background(), Request{SubjectID: "T-2", Kind: "photo", Width: 64, Height: 48})
	if bytes.Equal(first, other) {
		t.Fatal("different subjects should yield different placeholders")
	}
}
