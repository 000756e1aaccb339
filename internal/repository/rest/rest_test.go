package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	router   *mux.Router
	mu       sync.Mutex
	requests map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{router: mux.NewRouter(), requests: map[string]string{}}
}

func (f *fakeBackend) handle(method, path string, status int, response string) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests[r.Method+" "+r.URL.RequestURI()] = string(body)
		f.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(response))
	}).Methods(method)
}

func (f *fakeBackend) sent(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[key]
}

func (f *fakeBackend) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.requests[key]
	return ok
}

func (f *fakeBackend) store(t *testing.T) *Store {
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)
	return NewStore(client.New(client.Options{BaseURL: srv.URL}, nil))
}

func TestItemRepository_List(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodGet, "/api/items", http.StatusOK,
		`[{"id":"i1","name":"Cycle","category":"Vehicles","price_per_day_cents":5000,"status":"Available"}]`)
	store := backend.store(t)

	items, err := store.ItemRepository.List(context.Background(), domain.ItemFilter{Category: domain.CategoryVehicles, Search: "cy cle"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5000), items[0].PricePerDayCents)
	assert.Nil(t, items[0].BaseDepositCents)
	assert.True(t, backend.has("GET /api/items?category=Vehicles&search=cy+cle"))
}

func TestItemRepository_BookedRanges(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodGet, "/api/items/{id}/booked-dates", http.StatusOK,
		`[{"booking_id":"b1","start_date":"2025-07-01","end_date":"2025-07-05"}]`)
	store := backend.store(t)

	ranges, err := store.ItemRepository.BookedRanges(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, utils.NewDate(2025, 7, 1), ranges[0].StartDate)
	assert.Equal(t, utils.NewDate(2025, 7, 5), ranges[0].EndDate)
}

func TestBookingRepository_GetByID(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodGet, "/api/bookings/missing", http.StatusForbidden, `{"message":"Not allowed"}`)
	backend.handle(http.MethodGet, "/api/bookings/{id}", http.StatusOK,
		`{"id":"b1","item_id":"i1","start_date":"2025-01-01","end_date":"2025-01-03","total_days":3,"total_cents":60000,"status":"ACTIVE","deposit_status":"HELD"}`)
	store := backend.store(t)
	ctx := context.Background()

	t.Run("Success with absent item", func(t *testing.T) {
		b, err := store.BookingRepository.GetByID(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusActive, b.Status)
		assert.Nil(t, b.Item)
		assert.Equal(t, "", b.ItemName())
		require.NotNil(t, b.DepositStatus)
		assert.Equal(t, domain.DepositStatusHeld, *b.DepositStatus)
	})

	t.Run("Forbidden", func(t *testing.T) {
		_, err := store.BookingRepository.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, client.ErrNotFoundOrInaccessible)
	})
}

func TestBookingRepository_Actions(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodPut, "/api/bookings/{id}/cancel", http.StatusOK, `{}`)
	backend.handle(http.MethodPost, "/api/bookings/{id}/return/verify-otp", http.StatusOK, ``)
	backend.handle(http.MethodPost, "/api/bookings/{id}/return/verify", http.StatusOK, ``)
	backend.handle(http.MethodGet, "/api/bookings/my/summary", http.StatusOK, `{"ACTIVE":2,"CANCELED":1}`)
	store := backend.store(t)
	ctx := context.Background()

	require.NoError(t, store.BookingRepository.Cancel(ctx, "b1"))
	require.NoError(t, store.BookingRepository.VerifyReturnOTP(ctx, "b1", "123456"))
	require.NoError(t, store.BookingRepository.VerifyReturn(ctx, "b1", domain.ReturnDecision{Accepted: false, Notes: "cracked screen"}))

	summary, err := store.BookingRepository.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary[domain.BookingStatusActive])
	assert.Equal(t, 3, summary.Total())

	assert.JSONEq(t, `{"otp":"123456"}`, backend.sent("POST /api/bookings/b1/return/verify-otp"))
	assert.JSONEq(t, `{"accepted":false,"notes":"cracked screen"}`, backend.sent("POST /api/bookings/b1/return/verify"))
}

func TestPaymentRepository(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodPost, "/api/bookings/create-order", http.StatusOK,
		`{"order_id":"order_1","amount_cents":65000,"currency":"INR"}`)
	backend.handle(http.MethodPost, "/api/bookings/verify", http.StatusConflict,
		`{"message":"Item already booked for the selected dates"}`)
	backend.handle(http.MethodPost, "/api/bookings/{id}/extend/verify", http.StatusOK,
		`{"id":"b1","end_date":"2025-08-02","status":"ACTIVE"}`)
	store := backend.store(t)
	ctx := context.Background()

	req := domain.BookingRequest{ItemID: "i1", StartDate: utils.NewDate(2025, 1, 1), EndDate: utils.NewDate(2025, 1, 3)}
	order, err := store.PaymentRepository.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.OrderID)
	assert.JSONEq(t, `{"item_id":"i1","start_date":"2025-01-01","end_date":"2025-01-03"}`,
		backend.sent("POST /api/bookings/create-order"))

	_, err = store.PaymentRepository.VerifyAndBook(ctx, domain.VerifyBookingRequest{
		PaymentProof:   domain.PaymentProof{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
		BookingRequest: req,
	})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Item already booked for the selected dates", apiErr.Message)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(backend.sent("POST /api/bookings/verify")), &sent))
	assert.Equal(t, "pay_1", sent["payment_id"])
	assert.Equal(t, "i1", sent["item_id"])

	b, err := store.PaymentRepository.VerifyAndExtend(ctx, "b1", domain.VerifyExtensionRequest{NewEndDate: utils.NewDate(2025, 8, 2)})
	require.NoError(t, err)
	assert.Equal(t, utils.NewDate(2025, 8, 2), b.EndDate)
}

func TestWishlistAndChat(t *testing.T) {
	backend := newFakeBackend()
	backend.handle(http.MethodGet, "/api/wishlist/{itemId}/status", http.StatusOK, `{"in_wishlist":true}`)
	backend.handle(http.MethodPost, "/api/chats", http.StatusOK, `{"id":"c1","item_id":"i1"}`)
	backend.handle(http.MethodGet, "/api/chats/{id}/messages", http.StatusOK, `[{"id":"m1","content":"hi"}]`)
	store := backend.store(t)
	ctx := context.Background()

	in, err := store.WishlistRepository.Contains(ctx, "i1")
	require.NoError(t, err)
	assert.True(t, in)

	conv, err := store.ChatRepository.StartConversation(ctx, "i1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ID)
	assert.JSONEq(t, `{"item_id":"i1","recipient_id":"u2"}`, backend.sent("POST /api/chats"))

	msgs, err := store.ChatRepository.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
}
