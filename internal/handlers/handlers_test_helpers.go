package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"nftmarket/internal/auth"
	"nftmarket/internal/config"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubRoleStore struct {
	roleFn func(ctx context.Context, userID string) (string, error)
}

func (s stubRoleStore) GetRole(ctx context.Context, userID string) (string, error) {
	if s.roleFn == nil {
		return store.RoleUser, nil
	}
	return s.roleFn(ctx, userID)
}

type stubUserStore struct {
	getByIDFn func(ctx context.Context, userID string) (store.User, error)
	listFn    func(ctx context.Context, params store.ListParams) ([]store.User, int, error)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) List(ctx context.Context, params store.ListParams) ([]store.User, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, params)
}

type stubBalanceStore struct {
	getByUserFn func(ctx context.Context, userID string) ([]store.Balance, error)
}

func (s stubBalanceStore) GetByUser(ctx context.Context, userID string) ([]store.Balance, error) {
	if s.getByUserFn == nil {
		return nil, nil
	}
	return s.getByUserFn(ctx, userID)
}

type stubDepositStore struct {
	getByIDFn    func(ctx context.Context, depositID string) (store.Deposit, error)
	listByUserFn func(ctx context.Context, userID string, params store.ListParams) ([]store.Deposit, int, error)
	listAllFn    func(ctx context.Context, params store.ListParams) ([]store.Deposit, int, error)
}

func (s stubDepositStore) GetByID(ctx context.Context, depositID string) (store.Deposit, error) {
	if s.getByIDFn == nil {
		return store.Deposit{}, nil
	}
	return s.getByIDFn(ctx, depositID)
}

func (s stubDepositStore) ListByUser(ctx context.Context, userID string, params store.ListParams) ([]store.Deposit, int, error) {
	if s.listByUserFn == nil {
		return nil, 0, nil
	}
	return s.listByUserFn(ctx, userID, params)
}

func (s stubDepositStore) ListAll(ctx context.Context, params store.ListParams) ([]store.Deposit, int, error) {
	if s.listAllFn == nil {
		return nil, 0, nil
	}
	return s.listAllFn(ctx, params)
}

type stubWithdrawalStore struct {
	getByIDFn    func(ctx context.Context, withdrawalID string) (store.Withdrawal, error)
	listByUserFn func(ctx context.Context, userID string, params store.ListParams) ([]store.Withdrawal, int, error)
	listAllFn    func(ctx context.Context, params store.ListParams) ([]store.Withdrawal, int, error)
}

func (s stubWithdrawalStore) GetByID(ctx context.Context, withdrawalID string) (store.Withdrawal, error) {
	if s.getByIDFn == nil {
		return store.Withdrawal{}, nil
	}
	return s.getByIDFn(ctx, withdrawalID)
}

func (s stubWithdrawalStore) ListByUser(ctx context.Context, userID string, params store.ListParams) ([]store.Withdrawal, int, error) {
	if s.listByUserFn == nil {
		return nil, 0, nil
	}
	return s.listByUserFn(ctx, userID, params)
}

func (s stubWithdrawalStore) ListAll(ctx context.Context, params store.ListParams) ([]store.Withdrawal, int, error) {
	if s.listAllFn == nil {
		return nil, 0, nil
	}
	return s.listAllFn(ctx, params)
}

type stubTransactionStore struct {
	listByUserFn func(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]store.Transaction, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, txType, limit, offset)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]store.Transaction, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubCategoryStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.CategoryInput) error
	updateFn     func(ctx context.Context, tx store.Execer, input store.CategoryInput) error
	deleteFn     func(ctx context.Context, tx store.Execer, categoryID string) error
	getByIDFn    func(ctx context.Context, categoryID string) (store.Category, error)
	listAllFn    func(ctx context.Context) ([]store.Category, error)
	listActiveFn func(ctx context.Context) ([]store.Category, error)
	countNFTsFn  func(ctx context.Context, categoryID string) (int, error)
}

func (s stubCategoryStore) Create(ctx context.Context, tx store.Execer, input store.CategoryInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubCategoryStore) Update(ctx context.Context, tx store.Execer, input store.CategoryInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubCategoryStore) Delete(ctx context.Context, tx store.Execer, categoryID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, categoryID)
}

func (s stubCategoryStore) GetByID(ctx context.Context, categoryID string) (store.Category, error) {
	if s.getByIDFn == nil {
		return store.Category{}, nil
	}
	return s.getByIDFn(ctx, categoryID)
}

func (s stubCategoryStore) ListAll(ctx context.Context) ([]store.Category, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

func (s stubCategoryStore) ListActive(ctx context.Context) ([]store.Category, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s stubCategoryStore) CountNFTs(ctx context.Context, categoryID string) (int, error) {
	if s.countNFTsFn == nil {
		return 0, nil
	}
	return s.countNFTsFn(ctx, categoryID)
}

type stubNFTStore struct {
	getByIDFn     func(ctx context.Context, nftID string) (store.NFT, error)
	listByOwnerFn func(ctx context.Context, ownerID string, params store.ListParams) ([]store.NFT, int, error)
	listAllFn     func(ctx context.Context, params store.ListParams) ([]store.NFT, int, error)
}

func (s stubNFTStore) GetByID(ctx context.Context, nftID string) (store.NFT, error) {
	if s.getByIDFn == nil {
		return store.NFT{}, nil
	}
	return s.getByIDFn(ctx, nftID)
}

func (s stubNFTStore) ListByOwner(ctx context.Context, ownerID string, params store.ListParams) ([]store.NFT, int, error) {
	if s.listByOwnerFn == nil {
		return nil, 0, nil
	}
	return s.listByOwnerFn(ctx, ownerID, params)
}

func (s stubNFTStore) ListAll(ctx context.Context, params store.ListParams) ([]store.NFT, int, error) {
	if s.listAllFn == nil {
		return nil, 0, nil
	}
	return s.listAllFn(ctx, params)
}

type stubNewsletterStore struct {
	subscribeFn   func(ctx context.Context, tx store.Execer, id, email, name string) error
	unsubscribeFn func(ctx context.Context, tx store.Execer, email string) (int64, error)
	listFn        func(ctx context.Context, params store.ListParams) ([]store.NewsletterSubscription, int, error)
}

func (s stubNewsletterStore) Subscribe(ctx context.Context, tx store.Execer, id, email, name string) error {
	if s.subscribeFn == nil {
		return nil
	}
	return s.subscribeFn(ctx, tx, id, email, name)
}

func (s stubNewsletterStore) Unsubscribe(ctx context.Context, tx store.Execer, email string) (int64, error) {
	if s.unsubscribeFn == nil {
		return 1, nil
	}
	return s.unsubscribeFn(ctx, tx, email)
}

func (s stubNewsletterStore) List(ctx context.Context, params store.ListParams) ([]store.NewsletterSubscription, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, params)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubAccountService struct {
	registerFn func(ctx context.Context, username, email, password string) (store.User, error)
	loginFn    func(ctx context.Context, email, password string) (store.User, error)
	profileFn  func(ctx context.Context, userID string, newsletter bool) error
	promoteFn  func(ctx context.Context, adminID, userID string) error
}

func (s stubAccountService) Register(ctx context.Context, username, email, password string) (store.User, error) {
	if s.registerFn == nil {
		return store.User{ID: "user-1", Username: username, Email: email}, nil
	}
	return s.registerFn(ctx, username, email, password)
}

func (s stubAccountService) Login(ctx context.Context, email, password string) (store.User, error) {
	if s.loginFn == nil {
		return store.User{ID: "user-1", Email: email}, nil
	}
	return s.loginFn(ctx, email, password)
}

func (s stubAccountService) UpdateProfile(ctx context.Context, userID string, newsletter bool) error {
	if s.profileFn == nil {
		return nil
	}
	return s.profileFn(ctx, userID, newsletter)
}

func (s stubAccountService) Promote(ctx context.Context, adminID, userID string) error {
	if s.promoteFn == nil {
		return nil
	}
	return s.promoteFn(ctx, adminID, userID)
}

type stubRequestService struct {
	depositFn    func(ctx context.Context, input services.SubmitDepositInput) (string, error)
	withdrawalFn func(ctx context.Context, input services.SubmitWithdrawalInput) (string, error)
}

func (s stubRequestService) SubmitDeposit(ctx context.Context, input services.SubmitDepositInput) (string, error) {
	if s.depositFn == nil {
		return "dep-1", nil
	}
	return s.depositFn(ctx, input)
}

func (s stubRequestService) SubmitWithdrawal(ctx context.Context, input services.SubmitWithdrawalInput) (string, error) {
	if s.withdrawalFn == nil {
		return "wd-1", nil
	}
	return s.withdrawalFn(ctx, input)
}

type stubApprovalService struct {
	approveDepositFn    func(ctx context.Context, adminID, depositID, adminNote string) error
	declineDepositFn    func(ctx context.Context, adminID, depositID, adminNote string) error
	approveWithdrawalFn func(ctx context.Context, adminID, withdrawalID, adminNote string) error
	declineWithdrawalFn func(ctx context.Context, adminID, withdrawalID, adminNote string) error
}

func (s stubApprovalService) ApproveDeposit(ctx context.Context, adminID, depositID, adminNote string) error {
	if s.approveDepositFn == nil {
		return nil
	}
	return s.approveDepositFn(ctx, adminID, depositID, adminNote)
}

func (s stubApprovalService) DeclineDeposit(ctx context.Context, adminID, depositID, adminNote string) error {
	if s.declineDepositFn == nil {
		return nil
	}
	return s.declineDepositFn(ctx, adminID, depositID, adminNote)
}

func (s stubApprovalService) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error {
	if s.approveWithdrawalFn == nil {
		return nil
	}
	return s.approveWithdrawalFn(ctx, adminID, withdrawalID, adminNote)
}

func (s stubApprovalService) DeclineWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error {
	if s.declineWithdrawalFn == nil {
		return nil
	}
	return s.declineWithdrawalFn(ctx, adminID, withdrawalID, adminNote)
}

type stubNFTService struct {
	submitFn  func(ctx context.Context, input services.SubmitNFTInput) (string, error)
	approveFn func(ctx context.Context, adminID, nftID, adminNote string) error
	declineFn func(ctx context.Context, adminID, nftID, adminNote string) error
	toggleFn  func(ctx context.Context, actorID, actorRole, nftID string) (bool, error)
}

func (s stubNFTService) Submit(ctx context.Context, input services.SubmitNFTInput) (string, error) {
	if s.submitFn == nil {
		return "nft-1", nil
	}
	return s.submitFn(ctx, input)
}

func (s stubNFTService) Approve(ctx context.Context, adminID, nftID, adminNote string) error {
	if s.approveFn == nil {
		return nil
	}
	return s.approveFn(ctx, adminID, nftID, adminNote)
}

func (s stubNFTService) Decline(ctx context.Context, adminID, nftID, adminNote string) error {
	if s.declineFn == nil {
		return nil
	}
	return s.declineFn(ctx, adminID, nftID, adminNote)
}

func (s stubNFTService) ToggleActive(ctx context.Context, actorID, actorRole, nftID string) (bool, error) {
	if s.toggleFn == nil {
		return true, nil
	}
	return s.toggleFn(ctx, actorID, actorRole, nftID)
}

type stubReportService struct {
	detailedFn  func(ctx context.Context, start, end time.Time) (services.DetailedStats, error)
	reconcileFn func(ctx context.Context) ([]services.ReconcileEntry, error)
}

func (s stubReportService) Detailed(ctx context.Context, start, end time.Time) (services.DetailedStats, error) {
	if s.detailedFn == nil {
		return services.DetailedStats{}, nil
	}
	return s.detailedFn(ctx, start, end)
}

func (s stubReportService) Reconcile(ctx context.Context) ([]services.ReconcileEntry, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx)
}

func newTestHandler(deps Deps) *Handler {
	if deps.Cfg.JWTSecret == "" {
		deps.Cfg = config.Config{
			AppEnv:         "test",
			JWTSecret:      "secret",
			TokenTTL:       time.Minute,
			AllowedOrigins: "*",
		}
	}
	if deps.TxRunner == nil {
		deps.TxRunner = fakeTxRunner{}
	}
	if deps.Roles == nil {
		deps.Roles = stubRoleStore{}
	}
	if deps.Users == nil {
		deps.Users = stubUserStore{}
	}
	if deps.Balances == nil {
		deps.Balances = stubBalanceStore{}
	}
	if deps.Deposits == nil {
		deps.Deposits = stubDepositStore{}
	}
	if deps.Withdrawals == nil {
		deps.Withdrawals = stubWithdrawalStore{}
	}
	if deps.Transactions == nil {
		deps.Transactions = stubTransactionStore{}
	}
	if deps.Categories == nil {
		deps.Categories = stubCategoryStore{}
	}
	if deps.NFTs == nil {
		deps.NFTs = stubNFTStore{}
	}
	if deps.Newsletter == nil {
		deps.Newsletter = stubNewsletterStore{}
	}
	if deps.Audit == nil {
		deps.Audit = stubAuditStore{}
	}
	if deps.Accounts == nil {
		deps.Accounts = stubAccountService{}
	}
	if deps.Requests == nil {
		deps.Requests = stubRequestService{}
	}
	if deps.Approvals == nil {
		deps.Approvals = stubApprovalService{}
	}
	if deps.NFTService == nil {
		deps.NFTService = stubNFTService{}
	}
	if deps.Reports == nil {
		deps.Reports = stubReportService{}
	}
	if deps.Hub == nil {
		deps.Hub = websocket.NewHub()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return New(deps)
}

func adminRoles() stubRoleStore {
	return stubRoleStore{roleFn: func(ctx context.Context, userID string) (string, error) {
		return store.RoleAdmin, nil
	}}
}

// authedRequest attaches a real signed token so requests exercise the auth
// middleware the same way production traffic does.
func authedRequest(t *testing.T, method, target string, body io.Reader, userID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response %q: %v", rr.Body.String(), err)
	}
	return payload
}

func stringPtr(value string) *string {
	return &value
}
