package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	e2eSchools = "SCH_CODE,SCHOOL_NAME,distt,lat,lng\nS1,North School,North,31.1,77.2\n"
	e2eRPs     = "TOPIC,TRAINING_STATUS,DIST,RP_NAME,MOBILE_NO,EMAIL\n" +
		"Math,Conducted,North,Alice,111,alice@example.org\n" +
		"Math,Attended,South,Bob,222,bob@example.org\n"
	e2eTopics = "Math\nScience\n"
)

// mapSource serves feeds from memory. A kind listed in fail returns that error.
type mapSource struct {
	mu    sync.Mutex
	feeds map[FeedKind]string
	fail  map[FeedKind]error
	calls int
	block chan struct{}
}

func newMapSource() *mapSource {
	return &mapSource{feeds: map[FeedKind]string{
		FeedSchools:         e2eSchools,
		FeedResourcePersons: e2eRPs,
		FeedTopics:          e2eTopics,
	}}
}

func (m *mapSource) Fetch(ctx context.Context, kind FeedKind) (string, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	text, err := m.feeds[kind], m.fail[kind]
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

func (m *mapSource) set(kind FeedKind, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feeds[kind] = text
}

func (m *mapSource) setFail(kind FeedKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail == nil {
		m.fail = make(map[FeedKind]error)
	}
	m.fail[kind] = err
}

type recordingObserver struct {
	mu          sync.Mutex
	loads       []error
	submissions []error
}

func (o *recordingObserver) ObserveLoad(_ time.Duration, _ StoreStats, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads = append(o.loads, err)
}

func (o *recordingObserver) ObserveSubmission(_ Confirmation, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, err)
}

func newTestService(t *testing.T, src FeedSource, obs Observer) *Service {
	t.Helper()
	svc, err := NewService(src, ServiceConfig{Observer: obs})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestEndToEnd(t *testing.T) {
	svc := newTestService(t, newMapSource(), nil)
	ctx := context.Background()

	stats, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stats.Schools != 1 || stats.ResourcePersons != 2 || stats.Topics != 2 {
		t.Errorf("stats = %+v", stats)
	}

	topics, err := svc.Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics) != 2 || topics[0] != "Math" || topics[1] != "Science" {
		t.Errorf("topics = %q, want [Math Science]", topics)
	}

	date := nextWeekday(time.Now()).Format(DateLayout)
	conf, err := svc.Submit(ctx, TrainingRequest{SchoolCode: "s1", Date: date, Topic: "Math"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	primary := conf.Assignment.Primary
	if primary.Person.Name != "Alice" || primary.Person.District != "North" {
		t.Errorf("primary = %+v, want Alice/North", primary.Person)
	}
	if primary.Tier != TierSameDistrict {
		t.Errorf("primary tier = %v, want same_district", primary.Tier)
	}

	secondary := conf.Assignment.Secondary
	if secondary.Person.Name != "Bob" {
		t.Errorf("secondary = %+v, want Bob", secondary.Person)
	}
	if secondary.Tier != TierFallback {
		t.Errorf("secondary tier = %v, want fallback", secondary.Tier)
	}

	if conf.School.Name != "North School" || !conf.School.HasLocation {
		t.Errorf("school = %+v", conf.School)
	}
}

func TestServiceBeforeFirstLoad(t *testing.T) {
	svc := newTestService(t, newMapSource(), nil)

	if svc.Ready() {
		t.Error("Ready() = true before any load")
	}
	if _, err := svc.Topics(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Topics err = %v, want ErrDataUnavailable", err)
	}
	if _, err := svc.LookupSchool("S1"); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("LookupSchool err = %v, want ErrDataUnavailable", err)
	}
	if _, err := svc.Submit(context.Background(), TrainingRequest{SchoolCode: "S1", Date: "2030-01-07", Topic: "Math"}); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Submit err = %v, want ErrDataUnavailable", err)
	}
}

func TestRefreshFailureKeepsPreviousStore(t *testing.T) {
	src := newMapSource()
	obs := &recordingObserver{}
	svc := newTestService(t, src, obs)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	before := svc.Store()

	src.set(FeedSchools, "SCH_CODE,SCHOOL_NAME,distt\nS9,New,East\n")
	fetchErr := errors.New("upstream 502")
	src.setFail(FeedTopics, fetchErr)

	_, err := svc.Refresh(ctx)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("err = %v, want wrapped fetch error", err)
	}
	var fe *FeedError
	if !errors.As(err, &fe) || fe.Kind != FeedTopics {
		t.Errorf("err = %v, want *FeedError for topics", err)
	}

	if svc.Store() != before {
		t.Error("failed refresh replaced the store")
	}
	if _, err := svc.LookupSchool("S9"); !errors.Is(err, ErrSchoolNotFound) {
		t.Errorf("partial load leaked: LookupSchool(S9) err = %v", err)
	}

	status := svc.Status()
	if !status.Ready {
		t.Error("Status().Ready = false after failed refresh")
	}
	if status.LastError == "" {
		t.Error("Status().LastError is empty after failed refresh")
	}
	if status.Store.LoadID != before.LoadID.String() {
		t.Errorf("Status().Store.LoadID = %q, want previous load", status.Store.LoadID)
	}

	if len(obs.loads) != 2 || obs.loads[0] != nil || obs.loads[1] == nil {
		t.Errorf("observed loads = %v, want [nil err]", obs.loads)
	}
}

func TestRefreshReplacesStore(t *testing.T) {
	src := newMapSource()
	svc := newTestService(t, src, nil)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	src.set(FeedTopics, "Art\n")
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	topics, _ := svc.Topics()
	if len(topics) != 1 || topics[0] != "Art" {
		t.Errorf("topics = %q, want [Art]", topics)
	}
	if svc.Status().LastError != "" {
		t.Errorf("LastError = %q after success", svc.Status().LastError)
	}
}

func TestRefreshInProgress(t *testing.T) {
	src := newMapSource()
	src.block = make(chan struct{})
	svc := newTestService(t, src, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	deadline := time.After(time.Second)
	for !svc.Status().Refreshing {
		select {
		case <-deadline:
			t.Fatal("first refresh never started")
		case <-time.After(time.Millisecond):
		}
	}

	if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("concurrent Refresh err = %v, want ErrRefreshInProgress", err)
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Errorf("first Refresh: %v", err)
	}
}

func TestLoadTimeout(t *testing.T) {
	src := newMapSource()
	src.block = make(chan struct{})
	defer close(src.block)

	_, err := LoadEntities(context.Background(), src, LoadOptions{Timeout: 10 * time.Millisecond})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestLoadEntitiesWithMissingColumns(t *testing.T) {
	src := newMapSource()
	src.set(FeedSchools, "SCH_CODE\nS1\n")

	store, err := LoadEntities(context.Background(), src, LoadOptions{})
	if err != nil {
		t.Fatalf("missing columns should not fail the load: %v", err)
	}
	if len(store.Schools) != 1 || store.Schools[0].District != "" {
		t.Errorf("schools = %+v", store.Schools)
	}
}

func TestSubmitIsObserved(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, newMapSource(), obs)
	ctx := context.Background()
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	_, _ = svc.Submit(ctx, TrainingRequest{SchoolCode: "S1", Date: "2030-01-07", Topic: "Math"})
	_, _ = svc.Submit(ctx, TrainingRequest{SchoolCode: "S404", Date: "2030-01-07", Topic: "Math"})

	if len(obs.submissions) != 2 {
		t.Fatalf("observed %d submissions, want 2", len(obs.submissions))
	}
	if obs.submissions[0] != nil {
		t.Errorf("first submission err = %v, want nil", obs.submissions[0])
	}
	if !errors.Is(obs.submissions[1], ErrSchoolNotFound) {
		t.Errorf("second submission err = %v, want ErrSchoolNotFound", obs.submissions[1])
	}
}

func TestSubmitLogKeepsRequestAndConfirmationIDsApart(t *testing.T) {
	svc := newTestService(t, newMapSource(), nil)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	conf, err := svc.Submit(ctx, TrainingRequest{SchoolCode: "S1", Date: "2030-01-07", Topic: "Math"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", entry["request_id"])
	}
	if entry["confirmation_id"] != conf.RequestID.String() {
		t.Errorf("confirmation_id = %v, want %s", entry["confirmation_id"], conf.RequestID)
	}
}

func TestNewServiceRequiresSource(t *testing.T) {
	if _, err := NewService(nil, ServiceConfig{}); err == nil {
		t.Error("NewService(nil) returned no error")
	}
}

func TestSchedulerRefreshes(t *testing.T) {
	src := newMapSource()
	svc := newTestService(t, src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		svc.StartRefreshScheduler(ctx, 5*time.Millisecond)
		close(stopped)
	}()

	deadline := time.After(time.Second)
	for !svc.Ready() {
		select {
		case <-deadline:
			cancel()
			t.Fatal("scheduler never loaded data")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestSchedulerDisabled(t *testing.T) {
	svc := newTestService(t, newMapSource(), nil)

	done := make(chan struct{})
	go func() {
		svc.StartRefreshScheduler(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled scheduler did not return")
	}
	if svc.Ready() {
		t.Error("disabled scheduler loaded data")
	}
}

// nextWeekday returns tomorrow or the first weekday after it.
func nextWeekday(from time.Time) time.Time {
	d := from.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
