package warranty

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/browser/browsertest"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/lock"
	"github.com/vunguyen00/Netflix/pkg/prober"
	"github.com/vunguyen00/Netflix/pkg/store"
	"github.com/vunguyen00/Netflix/pkg/store/storetest"
)

type fixture struct {
	store   *store.Store
	site    *browsertest.Site
	layout  browsertest.Layout
	locker  *lock.MemoryLocker
	alerter *recordingAlerter
	orch    *Orchestrator
}

type recordingAlerter struct {
	calls chan string
}

func (a *recordingAlerter) PoolExhausted(ctx context.Context, orderID string, inspected int) error {
	a.calls <- orderID
	return nil
}

type collectingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *collectingSink) Emit(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *collectingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func testProber(t *testing.T) *prober.Prober {
	t.Helper()
	wc := config.NewWarrantyConfig()
	wc.ButtonGraceMS = 20
	wc.FirstRaceMS = 30
	wc.InputRaceMS = 30
	wc.ShortRecheckMS = 10
	wc.FinalRecheckMS = 10
	wc.FinalWaitMS = 30
	wc.GraceMS = 20

	opts, err := prober.OptionsFromConfig(config.NewTargetConfig(), wc)
	require.NoError(t, err)
	return prober.New(opts)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewFixed(storetest.Epoch.Add(time.Hour))
	f := &fixture{
		store:   storetest.New(t, clk),
		site:    browsertest.NewSite(),
		layout:  browsertest.DefaultLayout(),
		locker:  lock.NewMemoryLocker(clk),
		alerter: &recordingAlerter{calls: make(chan string, 4)},
	}
	f.orch = New(f.site, testProber(t), f.store.Credentials, f.store.Orders, f.locker,
		WithRuns(f.store.Runs),
		WithAlerter(f.alerter),
		WithClock(clk),
	)
	return f
}

func (f *fixture) available(t *testing.T) []string {
	t.Helper()
	creds, err := f.store.Credentials.ListAvailable(context.Background(), 0)
	require.NoError(t, err)
	names := make([]string, 0, len(creds))
	for _, c := range creds {
		names = append(names, c.Username)
	}
	return names
}

func (f *fixture) order(t *testing.T, id string) *models.Order {
	t.Helper()
	o, err := f.store.Orders.Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

func TestRun_CurrentValid(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2")
	f.site.Account("old", f.layout.Wizard("pw-old"))

	sink := &collectingSink{}
	res := f.orch.Run(context.Background(), order.ID, sink)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeStillValid, res.Outcome)
	assert.Equal(t, []string{MsgCheckingCurrent, MsgCheckingPassword}, sink.all())
	assert.Zero(t, res.Inspected)
	assert.ElementsMatch(t, []string{"c1", "c2"}, f.available(t))
	assert.Empty(t, f.order(t, order.ID).History)
}

func TestRun_EndToEndReplacement(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "C1")
	pool := storetest.SeedPool(t, f.store, "C2", "C3")
	f.site.Account("C1", f.layout.Dead())
	f.site.Account("C2", f.layout.SkipsPassword())
	f.site.Account("C3", f.layout.Wizard("pw-C3"))

	sink := &collectingSink{}
	res := f.orch.Run(context.Background(), order.ID, sink)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeReplaced, res.Outcome)
	assert.Equal(t, "C2", res.NewIdentifier)
	assert.Equal(t, []string{MsgCheckingCurrent, "trying candidate C2", MsgFoundValid}, sink.all())
	assert.Equal(t, sink.all(), res.Steps)

	got := f.order(t, order.ID)
	assert.Equal(t, pool[0].Username, got.AccountEmail)
	assert.Equal(t, pool[0].Password, got.AccountPassword)
	assert.Equal(t, pool[0].Cookies, got.AccountCookies)
	assert.Len(t, got.History, 1)

	assert.Equal(t, []string{"C3"}, f.available(t))
	_, err := f.store.Credentials.Get(context.Background(), pool[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRun_KthCandidateWins(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2", "c3", "c4")
	f.site.Account("c1", f.layout.Dead())
	f.site.Account("c2", f.layout.Wizard("wrong"))
	f.site.Account("c3", f.layout.Wizard("pw-c3"))
	f.site.Account("c4", f.layout.Wizard("pw-c4"))

	sink := &collectingSink{}
	res := f.orch.Run(context.Background(), order.ID, sink)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeReplaced, res.Outcome)
	assert.Equal(t, "c3", res.NewIdentifier)
	assert.Equal(t, 3, res.Inspected)
	assert.Equal(t, []string{"c4"}, f.available(t))
	assert.Equal(t, []string{
		MsgCheckingCurrent,
		"trying candidate c1",
		"candidate c1 rejected",
		"trying candidate c2",
		"candidate c2 rejected",
		"trying candidate c3",
		MsgFoundValid,
	}, sink.all())
	assert.Equal(t, "c3", f.order(t, order.ID).AccountEmail)
}

func TestRun_PoolExhausted(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2", "c3")

	res := f.orch.Run(context.Background(), order.ID, nil)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 3, res.Inspected)
	assert.Empty(t, f.available(t))
	assert.Equal(t, MsgExhausted, res.Steps[len(res.Steps)-1])

	got := f.order(t, order.ID)
	assert.Equal(t, "old", got.AccountEmail)
	assert.Empty(t, got.History)

	select {
	case id := <-f.alerter.calls:
		assert.Equal(t, order.ID, id)
	case <-time.After(time.Second):
		t.Fatal("pool exhausted alert not sent")
	}
}

func TestRun_EmptyPool(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")

	res := f.orch.Run(context.Background(), order.ID, nil)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Zero(t, res.Inspected)
}

func TestRun_InfrastructureErrorReleasesCandidate(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2")
	f.site.CrashOn("c1")

	sink := &collectingSink{}
	res := f.orch.Run(context.Background(), order.ID, sink)

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.ErrorIs(t, res.Err, browser.ErrBrowserUnavailable)
	assert.NotContains(t, res.Message, "browser")
	assert.ElementsMatch(t, []string{"c1", "c2"}, f.available(t))
	assert.Equal(t, "old", f.order(t, order.ID).AccountEmail)
	assert.Equal(t, f.site.Launches(), f.site.Closes())
}

func TestRun_LaunchFailure(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.LaunchErr = errors.New("chrome not found")

	res := f.orch.Run(context.Background(), order.ID, nil)

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, userMsgError, res.Message)
	assert.Equal(t, []string{"c1"}, f.available(t))
}

func TestRun_MissingOrder(t *testing.T) {
	f := newFixture(t)

	res := f.orch.Run(context.Background(), "missing", nil)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.ErrorIs(t, res.Err, store.ErrNotFound)
	assert.Zero(t, f.site.Launches())
}

func TestRun_BusyOrder(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")

	release, err := f.locker.Acquire(context.Background(), "warranty:"+order.ID, time.Minute)
	require.NoError(t, err)
	defer release()

	res := f.orch.Run(context.Background(), order.ID, nil)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrRunInProgress)
	assert.Equal(t, userMsgBusy, res.Message)
	assert.Zero(t, f.site.Launches())
}

func TestRun_InactiveOrder(t *testing.T) {
	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{"expired", map[string]interface{}{"status": models.OrderExpired}},
		{"pending", map[string]interface{}{"status": models.OrderPending}},
		{"failed", map[string]interface{}{"status": models.OrderFailed}},
		{"lapsed but still paid", map[string]interface{}{"expires_at": storetest.Epoch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, order := storetest.SeedOrder(t, f.store, "old")
			storetest.SeedPool(t, f.store, "c1", "c2")
			f.site.Account("c1", f.layout.Unlocked())
			require.NoError(t, f.store.DB().Model(&models.Order{}).
				Where("id = ?", order.ID).Updates(tt.updates).Error)

			sink := &collectingSink{}
			res := f.orch.Run(context.Background(), order.ID, sink)

			assert.Equal(t, OutcomeError, res.Outcome)
			assert.ErrorIs(t, res.Err, ErrOrderInactive)
			assert.Equal(t, userMsgInactive, res.Message)
			assert.Empty(t, sink.all())
			assert.Zero(t, f.site.Launches())
			assert.ElementsMatch(t, []string{"c1", "c2"}, f.available(t))
			assert.Equal(t, "old", f.order(t, order.ID).AccountEmail)
		})
	}
}

func TestSwitch_InactiveOrderAllowed(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("c1", f.layout.Unlocked())
	require.NoError(t, f.store.DB().Model(&models.Order{}).
		Where("id = ?", order.ID).Update("status", models.OrderExpired).Error)

	res := f.orch.Switch(context.Background(), order.ID, nil)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeReplaced, res.Outcome)
	assert.Equal(t, "c1", f.order(t, order.ID).AccountEmail)
}

// failingOrders loads orders from the store but never assigns a credential
type failingOrders struct {
	*store.OrderStore
}

func (failingOrders) ReplaceCredential(ctx context.Context, orderID string, cred *models.Credential, message string) error {
	return errors.New("disk full")
}

func TestRun_UnassignedWinnerReturnsToPool(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2")
	f.site.Account("c1", f.layout.Dead())
	f.site.Account("c2", f.layout.Unlocked())

	orch := New(f.site, testProber(t), f.store.Credentials, failingOrders{f.store.Orders}, f.locker,
		WithClock(clock.NewFixed(storetest.Epoch.Add(time.Hour))))
	res := orch.Run(context.Background(), order.ID, nil)

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.ErrorContains(t, res.Err, "disk full")
	assert.Equal(t, userMsgError, res.Message)
	assert.Equal(t, []string{"c2"}, f.available(t), "rejected c1 is consumed, winner c2 is back")
	assert.Equal(t, "old", f.order(t, order.ID).AccountEmail)
}

func TestSwitch_SkipsCurrentCheck(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("old", f.layout.Wizard("pw-old"))
	f.site.Account("c1", f.layout.Shortcut())

	sink := &collectingSink{}
	res := f.orch.Switch(context.Background(), order.ID, sink)

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeReplaced, res.Outcome)
	assert.Equal(t, []string{"trying candidate c1", MsgFoundValid}, sink.all())

	got := f.order(t, order.ID)
	assert.Equal(t, "c1", got.AccountEmail)
	require.Len(t, got.History, 1)
	assert.Contains(t, got.History[0].Message, "switched")
}

func TestRun_PanickingSinkDoesNotStopRun(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("c1", f.layout.Unlocked())

	res := f.orch.Run(context.Background(), order.ID, SinkFunc(func(string) { panic("client gone") }))

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeReplaced, res.Outcome)
}

func TestRun_Audited(t *testing.T) {
	f := newFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	f.site.Account("old", f.layout.SessionOnly())

	// no password means the session check alone decides
	require.NoError(t, f.store.DB().Model(&models.Order{}).
		Where("id = ?", order.ID).Update("account_password", "").Error)

	res := f.orch.Run(context.Background(), order.ID, nil)
	require.Equal(t, OutcomeStillValid, res.Outcome)

	runs, err := f.store.Runs.List(context.Background(), store.RunFilter{OrderID: order.ID})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, string(OutcomeStillValid), runs[0].Outcome)
	assert.JSONEq(t, `["checking old account"]`, string(runs[0].Steps))
}

func TestChannelSink(t *testing.T) {
	s := NewChannelSink(2)
	s.Emit("a")
	s.Emit("b")
	s.Emit("c")
	s.Close()
	s.Emit("d")

	var got []string
	for m := range s.Messages() {
		got = append(got, m)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, s.Dropped())
}
