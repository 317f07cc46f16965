package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/order-tracker/internal/extract"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/query"
)

var testSearch = model.SearchConfig{
	Confirmation: model.SearchIntent{Subjects: []string{"confirm"}},
	Cancellation: model.SearchIntent{Subjects: []string{"cancel"}},
	Shipment:     model.SearchIntent{Subjects: []string{"ship"}},
	Xbox:         model.SearchIntent{Subjects: []string{"xbox"}},
}

// fakeMailbox answers searches by query literal and serves message
// bodies by id.
type fakeMailbox struct {
	results    map[string][]uint32
	bodies     map[uint32]string
	searchErr  map[string]error
	fetchErr   map[uint32]error
	selectErr  error
	selected   []string
	searches   []string
	fetchCalls int
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{
		results:   make(map[string][]uint32),
		bodies:    make(map[uint32]string),
		searchErr: make(map[string]error),
		fetchErr:  make(map[uint32]error),
	}
}

// add registers a message under the phase whose intent is subject.
func (m *fakeMailbox) add(subject string, id uint32, body string) {
	lit := query.Translate(model.SearchIntent{Subjects: []string{subject}}).Literal
	m.results[lit] = append(m.results[lit], id)
	m.bodies[id] = body
}

func (m *fakeMailbox) SelectFolder(_ context.Context, name string) error {
	if m.selectErr != nil {
		return m.selectErr
	}
	m.selected = append(m.selected, name)
	return nil
}

func (m *fakeMailbox) Search(_ context.Context, q query.Query) ([]uint32, error) {
	m.searches = append(m.searches, q.Literal)
	if err := m.searchErr[q.Literal]; err != nil {
		return nil, err
	}
	return m.results[q.Literal], nil
}

func (m *fakeMailbox) Fetch(_ context.Context, id uint32) (*model.RawMessage, error) {
	m.fetchCalls++
	if err := m.fetchErr[id]; err != nil {
		return nil, err
	}
	body, ok := m.bodies[id]
	if !ok {
		return nil, fmt.Errorf("no message %d", id)
	}
	return &model.RawMessage{ID: id, Body: []byte(body)}, nil
}

// fakeExtractor maps message bodies to canned results.
type fakeExtractor struct {
	results map[string]extract.Result
	kinds   []extract.Kind
}

func (f *fakeExtractor) Extract(raw []byte, kind extract.Kind) extract.Result {
	f.kinds = append(f.kinds, kind)
	return f.results[string(raw)]
}

type fixture struct {
	mailbox   *fakeMailbox
	extractor *fakeExtractor
	engine    *Engine
}

func newFixture() *fixture {
	mb := newFakeMailbox()
	ex := &fakeExtractor{results: make(map[string]extract.Result)}
	return &fixture{
		mailbox:   mb,
		extractor: ex,
		engine:    NewEngine(mb, ex, testSearch, log.New(io.Discard)),
	}
}

func (f *fixture) confirmation(id uint32, number string, products ...model.Product) {
	body := fmt.Sprintf("confirm-%d", id)
	f.mailbox.add("confirm", id, body)
	f.extractor.results[body] = extract.Result{
		OrderNumber:  number,
		Date:         "2024-03-05",
		EmailAddress: "jane@example.com",
		TotalPrice:   "$10.00",
		Products:     products,
	}
}

func (f *fixture) cancellation(id uint32, number string) {
	body := fmt.Sprintf("cancel-%d", id)
	f.mailbox.add("cancel", id, body)
	f.extractor.results[body] = extract.Result{OrderNumber: number}
}

func (f *fixture) shipment(id uint32, number string, tracking ...string) {
	body := fmt.Sprintf("ship-%d", id)
	f.mailbox.add("ship", id, body)
	f.extractor.results[body] = extract.Result{OrderNumber: number, TrackingNumbers: tracking}
}

func (f *fixture) unmatched(subject string, id uint32) {
	f.mailbox.add(subject, id, fmt.Sprintf("junk-%d", id))
}

func (f *fixture) run(t *testing.T) ([]model.Order, model.PhaseStatistics) {
	t.Helper()
	orders, stats := f.engine.RunOrderReconciliation(context.Background(), "INBOX")
	assert.Equal(t, stats.Processed, stats.Successful+stats.Failed)
	return orders, stats
}

var widget = model.Product{Title: "Widget", Price: "$10.00", Quantity: "1"}

func TestConfirmedThenCancelled(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-100", widget)
	f.cancellation(2, "BBY01-100")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, "BBY01-100", orders[0].OrderNumber)
	assert.Equal(t, model.StatusCancelled, orders[0].Status)
	assert.Empty(t, orders[0].TrackingNumbers)
	assert.Equal(t, []model.Product{widget}, orders[0].Products)

	assert.Equal(t, 1, stats.Confirmations)
	assert.Equal(t, 1, stats.Cancellations)
	assert.Equal(t, 2, stats.Successful)
}

func TestConfirmedThenShipped(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-200", widget)
	f.shipment(2, "BBY01-200", "1Z999")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusShipped, orders[0].Status)
	assert.Equal(t, []string{"1Z999"}, orders[0].TrackingNumbers)
	assert.Equal(t, 1, stats.Shipped)
	assert.Equal(t, 1, stats.TrackingNumbersFound)
}

func TestUnknownOrderIsDropped(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-100", widget)
	f.cancellation(2, "BBY01-999")
	f.shipment(3, "BBY01-998", "1Z1")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, "BBY01-100", orders[0].OrderNumber)
	assert.Equal(t, model.StatusProcessing, orders[0].Status)
	assert.Empty(t, orders[0].TrackingNumbers)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 3, stats.Successful)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Cancellations)
	assert.Zero(t, stats.Shipped)
}

func TestCancelledIsNotResurrectedByShipment(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-300", widget)
	f.cancellation(2, "BBY01-300")
	f.shipment(3, "BBY01-300", "1ZAAA")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusCancelled, orders[0].Status)
	assert.Equal(t, []string{"1ZAAA"}, orders[0].TrackingNumbers)
	assert.Zero(t, stats.Shipped)
	assert.Equal(t, 1, stats.TrackingNumbersFound)
}

func TestRepeatedConfirmationIsLastWriteWins(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-400", widget)
	f.confirmation(2, "BBY01-500", widget)
	gadget := model.Product{Title: "Gadget", Price: "$20.00", Quantity: "2"}
	f.confirmation(3, "BBY01-400", gadget)

	orders, stats := f.run(t)

	require.Len(t, orders, 2)
	assert.Equal(t, "BBY01-400", orders[0].OrderNumber, "keeps first position")
	assert.Equal(t, []model.Product{gadget}, orders[0].Products)
	assert.Equal(t, "BBY01-500", orders[1].OrderNumber)
	assert.Equal(t, 3, stats.Confirmations)
}

func TestConfirmationPhaseIsIdempotent(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-1", widget)
	f.confirmation(2, "BBY01-2", widget)

	first, _ := f.run(t)
	second, _ := f.run(t)
	assert.Equal(t, first, second)
}

func TestRepeatedConfirmationSetInOneRun(t *testing.T) {
	f := newFixture()
	gadget := model.Product{Title: "Gadget", Price: "$20.00", Quantity: "2"}
	f.confirmation(1, "BBY01-1", widget)
	f.confirmation(2, "BBY01-2", widget, gadget)

	once, _ := f.run(t)

	// The search now returns every confirmation twice.
	lit := query.Translate(testSearch.Confirmation).Literal
	f.mailbox.results[lit] = []uint32{1, 2, 1, 2}

	twice, stats := f.run(t)

	require.Len(t, twice, 2)
	assert.Equal(t, once, twice)
	for i := range once {
		assert.Equal(t, once[i].Products, twice[i].Products)
		assert.Equal(t, once[i].TotalPrice, twice[i].TotalPrice)
	}
	assert.Equal(t, []model.Product{widget, gadget}, twice[1].Products)
	assert.Equal(t, 4, stats.Confirmations)
}

func TestLatestShipmentReplacesTracking(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-600", widget)
	f.shipment(2, "BBY01-600", "OLD1", "OLD2")
	f.shipment(3, "BBY01-600", "1Z999")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, []string{"1Z999"}, orders[0].TrackingNumbers)
	assert.Equal(t, model.StatusShipped, orders[0].Status)
	assert.Equal(t, 2, stats.Shipped)
}

func TestResultWithoutOrderNumberCountsAsFailed(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-1", widget)
	f.mailbox.add("confirm", 2, "code-only")
	f.extractor.results["code-only"] = extract.Result{Code: "AAAAA-BBBBB-CCCCC-DDDDD-EEEEE"}
	f.mailbox.add("ship", 3, "tracking-only")
	f.extractor.results["tracking-only"] = extract.Result{TrackingNumbers: []string{"1Z1"}}

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].TrackingNumbers)
	assert.Equal(t, 1, stats.Confirmations)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 2, stats.Failed)
	assert.Zero(t, stats.TrackingNumbersFound)
}

func TestUnmatchedMessagesCountAsFailed(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-700", widget)
	f.unmatched("confirm", 2)
	f.unmatched("ship", 3)

	orders, stats := f.run(t)

	assert.Len(t, orders, 1)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 1, stats.Successful)
	assert.Equal(t, 2, stats.Failed)
	assert.Zero(t, stats.FetchFailures)
}

func TestFetchFailureSkipsOnlyThatMessage(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-800", widget)
	f.confirmation(2, "BBY01-801", widget)
	f.confirmation(3, "BBY01-802", widget)
	f.mailbox.fetchErr[2] = errors.New("giving up after 3 attempts: connection reset")

	orders, stats := f.run(t)

	require.Len(t, orders, 2)
	assert.Equal(t, "BBY01-800", orders[0].OrderNumber)
	assert.Equal(t, "BBY01-802", orders[1].OrderNumber)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.FetchFailures)
}

func TestFailedSearchAbortsOnlyThatPhase(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-900", widget)
	f.cancellation(2, "BBY01-900")
	f.shipment(3, "BBY01-900", "1ZX")

	cancelLit := query.Translate(testSearch.Cancellation).Literal
	f.mailbox.searchErr[cancelLit] = errors.New("giving up after 3 attempts")

	orders, stats := f.run(t)

	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusShipped, orders[0].Status)
	assert.Equal(t, []model.Phase{model.PhaseCancellation}, stats.AbortedPhases)
	assert.Equal(t, 2, stats.Processed)
}

func TestFailedSelectAbortsEveryPhase(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-1", widget)
	f.mailbox.selectErr = errors.New("no such mailbox")

	orders, stats := f.run(t)

	assert.Empty(t, orders)
	assert.Equal(t, []model.Phase{
		model.PhaseConfirmation, model.PhaseCancellation, model.PhaseShipment,
	}, stats.AbortedPhases)
	assert.Zero(t, f.mailbox.fetchCalls)
}

func TestEmptyMailboxCompletesWithZeroStats(t *testing.T) {
	f := newFixture()

	orders, stats := f.run(t)

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.Equal(t, model.PhaseStatistics{}, stats)
	assert.Equal(t, []string{
		`SUBJECT "confirm"`, `SUBJECT "cancel"`, `SUBJECT "ship"`,
	}, f.mailbox.searches, "phases run in fixed order")
	assert.Equal(t, []string{"INBOX", "INBOX", "INBOX"}, f.mailbox.selected)
}

func TestPhasesUseMatchingKind(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-1", widget)
	f.cancellation(2, "BBY01-1")
	f.shipment(3, "BBY01-1")

	f.run(t)
	assert.Equal(t, []extract.Kind{
		extract.KindConfirmation, extract.KindCancellation, extract.KindShipment,
	}, f.extractor.kinds)
}

func TestCancelledContextAbortsRemainingMessages(t *testing.T) {
	f := newFixture()
	f.confirmation(1, "BBY01-1", widget)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orders, stats := f.engine.RunOrderReconciliation(ctx, "INBOX")
	assert.Empty(t, orders)
	assert.Len(t, stats.AbortedPhases, 1)
	assert.Zero(t, stats.Processed)
}
