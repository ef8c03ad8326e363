package expense

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arin-r/splitlyx/internal/database"
	"github.com/arin-r/splitlyx/internal/group"
	"github.com/arin-r/splitlyx/internal/settlement"
	"github.com/arin-r/splitlyx/internal/user"
	"github.com/arin-r/splitlyx/pkg/response"
)

// Fixture for tests that need real storage: two users in a fresh group,
// with the full service wiring on top. Everything it creates is removed
// again in cleanup, so tests can share a database.
type integrationFixture struct {
	db             *sql.DB
	groupID        int64
	alice, bob     *user.User
	expenses       *Service
	settlements    *settlement.Service
	settlementRepo *settlement.Repository
}

// newIntegrationFixture connects to the database named by TEST_DATABASE_URL
// and seeds a two-member group. Integration tests are opt-in; without the
// env var they skip.
func newIntegrationFixture(t *testing.T) *integrationFixture {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("integration tests are disabled; set TEST_DATABASE_URL to enable")
	}

	db, err := database.NewPostgresConnection(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	ctx := context.Background()
	suffix := time.Now().UnixNano()

	userRepo := user.NewRepository(db)
	alice, err := userRepo.Create(ctx, "alice", fmt.Sprintf("alice+%d@example.com", suffix), "unused-hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	bob, err := userRepo.Create(ctx, "bob", fmt.Sprintf("bob+%d@example.com", suffix), "unused-hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	groupRepo := group.NewRepository(db)
	groupSvc := group.NewService(db, groupRepo)
	g, err := groupSvc.Create(ctx, alice.ID, &group.CreateGroupRequest{
		Name:      "integration trip",
		MemberIDs: []int64{bob.ID},
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	settlementRepo := settlement.NewRepository(db)
	ledger := settlement.NewLedger(settlementRepo)
	settlementSvc := settlement.NewService(db, settlementRepo, groupRepo, ledger)
	expenseSvc := NewService(db, NewRepository(db), groupRepo, ledger)

	t.Cleanup(func() {
		if err := groupSvc.Delete(ctx, g.ID); err != nil {
			t.Logf("cleanup: failed to delete group %d: %v", g.ID, err)
		}
		for _, id := range []int64{alice.ID, bob.ID} {
			if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
				t.Logf("cleanup: failed to delete user %d: %v", id, err)
			}
		}
		db.Close()
	})

	return &integrationFixture{
		db:             db,
		groupID:        g.ID,
		alice:          alice,
		bob:            bob,
		expenses:       expenseSvc,
		settlements:    settlementSvc,
		settlementRepo: settlementRepo,
	}
}

func (f *integrationFixture) createEvenSplitExpense(t *testing.T, ctx context.Context) *Expense {
	t.Helper()
	e, err := f.expenses.Create(ctx, &CreateExpenseRequest{
		GroupID: f.groupID,
		Name:    "dinner",
		Contributions: []ContributionInput{
			{UserID: f.alice.ID, Paid: 100, ActualShare: 50},
			{UserID: f.bob.ID, Paid: 0, ActualShare: 50},
		},
		TotalExpense: 100,
	})
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	return e
}

// Creating an expense must seed the stored ledger and repayments in the
// same transaction, and deleting it must return both to their previous
// state.
func TestExpenseCreateDeleteRoundTrip(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	e := f.createEvenSplitExpense(t, ctx)

	contributions, err := f.settlementRepo.FindContributions(ctx, f.db, f.groupID)
	if err != nil {
		t.Fatalf("failed to read contributions: %v", err)
	}
	if len(contributions) != 2 {
		t.Fatalf("expected 2 contribution rows, got %d", len(contributions))
	}

	repayments, err := f.settlements.GetSuggestedRepayments(ctx, f.groupID)
	if err != nil {
		t.Fatalf("failed to read repayments: %v", err)
	}
	if len(repayments) != 1 {
		t.Fatalf("expected 1 repayment, got %d", len(repayments))
	}
	rep := repayments[0]
	if rep.PayerID != f.bob.ID || rep.ReceiverID != f.alice.ID || math.Abs(rep.Amount-50) > 1e-9 {
		t.Errorf("unexpected repayment: %+v", rep)
	}

	if err := f.expenses.Delete(ctx, e.ID, f.groupID); err != nil {
		t.Fatalf("failed to delete expense: %v", err)
	}

	contributions, err = f.settlementRepo.FindContributions(ctx, f.db, f.groupID)
	if err != nil {
		t.Fatalf("failed to read contributions after delete: %v", err)
	}
	for _, c := range contributions {
		if c.Paid != 0 || c.ActualShare != 0 {
			t.Errorf("user %d not back to zero after delete: %+v", c.UserID, c)
		}
	}

	repayments, err = f.settlements.GetSuggestedRepayments(ctx, f.groupID)
	if err != nil {
		t.Fatalf("failed to read repayments after delete: %v", err)
	}
	if len(repayments) != 0 {
		t.Errorf("expected no repayments after delete, got %+v", repayments)
	}

	if _, err := f.expenses.GetByID(ctx, e.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound after delete, got %v", err)
	}
}

// A direct payment shifts the stored paid totals and shrinks the suggested
// repayment by the same amount, all through real storage.
func TestRecordTransactionReducesOutstandingDebt(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	f.createEvenSplitExpense(t, ctx)

	recorded, err := f.settlements.RecordTransaction(ctx, f.groupID, &settlement.RecordTransactionRequest{
		PayerID:    f.bob.ID,
		ReceiverID: f.alice.ID,
		Amount:     20,
	})
	if err != nil {
		t.Fatalf("failed to record transaction: %v", err)
	}
	if recorded.ID == 0 {
		t.Error("recorded transaction has no ID")
	}

	repayments, err := f.settlements.GetSuggestedRepayments(ctx, f.groupID)
	if err != nil {
		t.Fatalf("failed to read repayments: %v", err)
	}
	if len(repayments) != 1 {
		t.Fatalf("expected 1 repayment, got %d", len(repayments))
	}
	rep := repayments[0]
	if rep.PayerID != f.bob.ID || rep.ReceiverID != f.alice.ID || math.Abs(rep.Amount-30) > 1e-9 {
		t.Errorf("expected bob to owe alice 30, got %+v", rep)
	}

	balances, err := f.settlements.GetGroupBalances(ctx, f.groupID)
	if err != nil {
		t.Fatalf("failed to read balances: %v", err)
	}
	want := map[int64]float64{f.bob.ID: 30, f.alice.ID: -30}
	for _, b := range balances {
		if math.Abs(b.Balance-want[b.UserID]) > 1e-9 {
			t.Errorf("user %d: balance %v, want %v", b.UserID, b.Balance, want[b.UserID])
		}
	}

	transactions, err := f.settlements.GetRecordedTransactions(ctx, f.groupID)
	if err != nil {
		t.Fatalf("failed to read transactions: %v", err)
	}
	if len(transactions) != 1 || math.Abs(transactions[0].Amount-20) > 1e-9 {
		t.Errorf("unexpected transaction log: %+v", transactions)
	}
}

// The pagination meta in the list envelope must describe the page actually
// served, including when per_page is over the cap.
func TestListByGroupEchoesServedPagination(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	f.createEvenSplitExpense(t, ctx)

	r := chi.NewRouter()
	r.Mount("/", NewHandler(f.expenses).Routes())

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/group/%d?per_page=500", f.groupID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Meta *response.Meta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Meta == nil {
		t.Fatal("response has no meta block")
	}
	if envelope.Meta.PerPage != 20 {
		t.Errorf("meta per_page = %d, want the served page size 20", envelope.Meta.PerPage)
	}
	if envelope.Meta.Page != 1 {
		t.Errorf("meta page = %d, want 1", envelope.Meta.Page)
	}
}
