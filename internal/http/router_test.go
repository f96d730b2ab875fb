package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
	apihttp "github.com/MrJamesThe3rd/money/internal/http"
	accounthttp "github.com/MrJamesThe3rd/money/internal/http/account"
	"github.com/MrJamesThe3rd/money/internal/http/auth"
	categoryhttp "github.com/MrJamesThe3rd/money/internal/http/category"
	currencyhttp "github.com/MrJamesThe3rd/money/internal/http/currency"
	"github.com/MrJamesThe3rd/money/internal/http/importcsv"
	recordhttp "github.com/MrJamesThe3rd/money/internal/http/record"
	userhttp "github.com/MrJamesThe3rd/money/internal/http/user"
	"github.com/MrJamesThe3rd/money/internal/importer"
	"github.com/MrJamesThe3rd/money/internal/memstore"
	"github.com/MrJamesThe3rd/money/internal/provision"
	"github.com/MrJamesThe3rd/money/internal/record"
	"github.com/MrJamesThe3rd/money/internal/user"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	currencies, err := currency.NewService("EUR")
	require.NoError(t, err)

	store := memstore.New()
	issuer := auth.NewIssuer("test-secret", time.Hour)

	accounts := account.NewService(store, currencies, events.Nop{})
	categories := category.NewService(store)
	records := record.NewService(store, accounts, categories, currencies, events.Nop{})
	users := user.NewService(store, provision.NewService(accounts, categories))

	router := apihttp.New(issuer, []string{"*"}, apihttp.Handlers{
		Accounts:   accounthttp.NewHandler(accounts),
		Records:    recordhttp.NewHandler(records),
		Categories: categoryhttp.NewHandler(categories),
		Currencies: currencyhttp.NewHandler(currencies),
		Users:      userhttp.NewHandler(users, issuer),
		Import:     importcsv.NewHandler(importer.NewService(records, categories)),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

// signUp registers a user and returns a client holding its token.
func signUp(t *testing.T, srv *httptest.Server, username string) *client {
	t.Helper()

	c := &client{t: t, server: srv}

	status := c.do(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "correct horse",
		"confirm_password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var tok struct {
		Token string `json:"token"`
	}

	status = c.do(http.MethodPost, "/api/v1/users/token", map[string]string{
		"username": username,
		"password": "correct horse",
	}, &tok)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, tok.Token)

	c.token = tok.Token

	return c
}

type accountBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

type recordBody struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

func TestAPI_BalanceLifecycle(t *testing.T) {
	c := signUp(t, newServer(t), "alice")

	var provisioned []accountBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/accounts", nil, &provisioned))
	require.Len(t, provisioned, 1)
	assert.Equal(t, account.DefaultName, provisioned[0].Name)
	assert.Equal(t, "0", provisioned[0].Balance)

	var checking accountBody
	status := c.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Checking", "balance": "1000"}, &checking)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "1000", checking.Balance)
	assert.Equal(t, "EUR", checking.Currency)

	var history []recordBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/records?account_id="+checking.ID, nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "income", history[0].Type)

	var updated accountBody
	status = c.do(http.MethodPatch, "/api/v1/accounts/"+checking.ID, map[string]any{"balance": "300"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "300", updated.Balance)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/records?account_id="+checking.ID+"&type=expense", nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "700", history[0].Amount)

	var rec recordBody
	status = c.do(http.MethodPost, "/api/v1/records", map[string]any{
		"title":           "To cash",
		"amount":          "100",
		"type":            "transfer",
		"from_account_id": checking.ID,
		"to_account_id":   provisioned[0].ID,
		"payment_method":  "transfer",
	}, &rec)
	require.Equal(t, http.StatusCreated, status)

	var bal struct {
		AccountID string `json:"account_id"`
		Balance   string `json:"balance"`
		Currency  string `json:"currency"`
	}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/accounts/"+checking.ID+"/balance", nil, &bal))
	assert.Equal(t, "200", bal.Balance)
	assert.Equal(t, checking.ID, bal.AccountID)
	assert.Equal(t, "EUR", bal.Currency)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/accounts/"+provisioned[0].ID+"/balance", nil, &bal))
	assert.Equal(t, "100", bal.Balance)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/v1/records/"+rec.ID, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/accounts/"+checking.ID+"/balance", nil, &bal))
	assert.Equal(t, "300", bal.Balance)
}

func TestAPI_ErrorMapping(t *testing.T) {
	srv := newServer(t)
	alice := signUp(t, srv, "alice")
	bob := signUp(t, srv, "bob")

	var acc accountBody
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Main"}, &acc))

	tests := []struct {
		name       string
		client     *client
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{
			name:       "DuplicateAccountName",
			client:     alice,
			method:     http.MethodPost,
			path:       "/api/v1/accounts",
			body:       map[string]any{"name": "Main"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "BalanceTooPrecise",
			client:     alice,
			method:     http.MethodPost,
			path:       "/api/v1/accounts",
			body:       map[string]any{"name": "Precise", "balance": "1.001"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "CurrencyIsFixed",
			client:     alice,
			method:     http.MethodPatch,
			path:       "/api/v1/accounts/" + acc.ID,
			body:       map[string]any{"currency": "USD"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ForeignAccount",
			client:     bob,
			method:     http.MethodGet,
			path:       "/api/v1/accounts/" + acc.ID,
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "RecordOnForeignAccount",
			client: bob,
			method: http.MethodPost,
			path:   "/api/v1/records",
			body: map[string]any{
				"title": "Sneaky", "amount": "5", "type": "expense",
				"account_id": acc.ID, "payment_method": "cash",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "NegativeAmount",
			client: alice,
			method: http.MethodPost,
			path:   "/api/v1/records",
			body: map[string]any{
				"title": "Refund", "amount": "-5", "type": "expense",
				"account_id": acc.ID, "payment_method": "cash",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ForeignAccountBalance",
			client:     bob,
			method:     http.MethodGet,
			path:       "/api/v1/accounts/" + acc.ID + "/balance",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "InvalidID",
			client:     alice,
			method:     http.MethodGet,
			path:       "/api/v1/accounts/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unauthenticated",
			client:     &client{t: t, server: srv},
			method:     http.MethodGet,
			path:       "/api/v1/accounts",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.t = t
			assert.Equal(t, tt.wantStatus, tt.client.do(tt.method, tt.path, tt.body, nil))
		})
	}
}

func TestAPI_Users(t *testing.T) {
	srv := newServer(t)
	signUp(t, srv, "alice")

	anon := &client{t: t, server: srv}

	status := anon.do(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "alice2", "email": "ALICE@example.com",
		"password": "correct horse", "confirm_password": "correct horse",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = anon.do(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "carol", "email": "carol@example.com",
		"password": "short", "confirm_password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = anon.do(http.MethodPost, "/api/v1/users/token", map[string]string{
		"username": "alice", "password": "wrong password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_Currencies(t *testing.T) {
	anon := &client{t: t, server: newServer(t)}

	var list []struct {
		Code    string `json:"code"`
		Default bool   `json:"default"`
	}

	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/currencies", nil, &list))
	require.NotEmpty(t, list)

	var got struct {
		Code      string `json:"code"`
		MinorUnit int    `json:"minor_unit"`
	}

	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/currencies/jpy", nil, &got))
	assert.Equal(t, "JPY", got.Code)
	assert.Equal(t, 0, got.MinorUnit)

	assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, "/api/v1/currencies/QQQ", nil, nil))
}

func TestAPI_Categories(t *testing.T) {
	c := signUp(t, newServer(t), "alice")

	var cats []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/categories", nil, &cats))
	require.Len(t, cats, len(category.Defaults))

	var transport string
	for _, cat := range cats {
		if cat.Name == "Transport" {
			transport = cat.ID
		}
	}

	require.NotEmpty(t, transport)

	status := c.do(http.MethodPost, "/api/v1/categories/rules", map[string]string{
		"pattern": "uber", "category_id": transport,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var suggestion struct {
		CategoryID *string `json:"category_id"`
	}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/categories/suggest?description=UBER%20TRIP", nil, &suggestion))
	require.NotNil(t, suggestion.CategoryID)
	assert.Equal(t, transport, *suggestion.CategoryID)
}

func TestAPI_Import(t *testing.T) {
	srv := newServer(t)
	c := signUp(t, srv, "alice")

	var acc accountBody
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Bank"}, &acc))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("bank", "cgd"))
	require.NoError(t, form.WriteField("account_id", acc.ID))

	part, err := form.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = part.Write([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFE;-2,50\n29-01-2026;SALARIO;1.500,00\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/import", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Imported int `json:"imported"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Imported)

	var bal struct {
		Balance string `json:"balance"`
	}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/accounts/"+acc.ID+"/balance", nil, &bal))
	assert.Equal(t, "1497.5", bal.Balance)
}
